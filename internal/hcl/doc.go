// Package hcl provides the HCL implementation of the config.Loader
// interface. It is responsible for file discovery, parsing, evaluation of
// the configuration functions and translation into the config model.
package hcl
