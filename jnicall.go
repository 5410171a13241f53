// Package jnicall marks JNI method calls in Go source.
//
// A marked file is built only with the jnicall tag:
//
//	//go:build jnicall
//
//	n, err := jnicall.Call(env, `obj.size() -> Result<int, String>`)
//
// Running the jnicall generator writes a twin of the file, built without
// the tag, in which every marker is replaced by the code that performs the
// call. The marked file itself is never meant to run.
package jnicall

import "github.com/dhamidi/jnicall/jni"

// Call stands in for the expansion of expr. Its results are typed by the
// expansion, so code using it only compiles after generation.
func Call(env jni.Env, expr string) {
	panic("jnicall: Call(" + expr + ") was not expanded; run jnicall generate")
}
