// Package testsupport holds helpers shared by package tests: golden files,
// in-memory app archives and generated workflow documents.
package testsupport
