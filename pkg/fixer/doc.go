// Package fixer adjusts Activiti Enterprise workflows for the Activiti
// engine embedded in Alfresco. Fixers run in registration order against the
// parsed document and only touch the attributes and elements they target.
package fixer
