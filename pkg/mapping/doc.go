// Package mapping holds the static tables that translate Activiti element
// tags into Alfresco content-model parent types and Activiti form field types
// into content-model property types or association descriptors. Tables are
// plain values: new task or field kinds are added as entries, either in code
// or through an override document loaded with LoadFile/LoadFS.
package mapping
