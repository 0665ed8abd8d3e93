// Package tools locates the external programs a deploy depends on (make and
// the Qt Installer Framework compiler) and runs the staged `make install`.
package tools
