// Package formdef decodes Activiti form-model JSON and flattens its field
// tree. Layout containers are discarded; only their leaf inputs survive, in
// depth-first, column-ordered sequence.
package formdef
