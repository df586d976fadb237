//go:build mage

package main

import "runtime"

func binaryWithExt(name string) string {
	if runtime.GOOS == "windows" {
		return name + ".exe"
	}
	return name
}
