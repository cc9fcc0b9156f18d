// Package model builds the Alfresco content-model fragments for converted
// forms. Each form becomes a <type> whose parent is the task's model type;
// each leaf field becomes a <property> or an <association>. Emitters are pure
// string builders, the caller decides where the fragments are written.
package model
