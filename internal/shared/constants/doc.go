// Package constants centralizes filesystem permissions and well-known file
// names shared between commands.
package constants
