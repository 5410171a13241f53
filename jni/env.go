// Package jni is the call bridge that code generated by jnicall is compiled
// against. It only describes the operations the generated code needs;
// a concrete implementation wraps a live JNIEnv (usually through cgo).
package jni

// Object is a borrowed reference to a Java object. The bridge owns it;
// generated code never deletes or retains references it did not create.
type Object interface {
	IsNull() bool
}

// IsNull reports whether o is Java null. A nil interface counts as null.
func IsNull(o Object) bool {
	return o == nil || o.IsNull()
}

// Caller invokes Java methods.
type Caller interface {
	CallStaticMethod(class, name, sig string, args []Value) (Value, error)
	CallMethod(obj Object, name, sig string, args []Value) (Value, error)

	// CatchException returns nil when no exception is pending. Otherwise it
	// clears the pending exception and returns it as an error.
	CatchException() error
}

// Arrays allocates and fills Java arrays.
type Arrays interface {
	NewBooleanArray(n int) (Object, error)
	NewByteArray(n int) (Object, error)
	NewCharArray(n int) (Object, error)
	NewShortArray(n int) (Object, error)
	NewIntArray(n int) (Object, error)
	NewLongArray(n int) (Object, error)
	NewFloatArray(n int) (Object, error)
	NewDoubleArray(n int) (Object, error)

	SetBooleanArrayRegion(arr Object, start int, buf []uint8) error
	SetByteArrayRegion(arr Object, start int, buf []int8) error
	SetCharArrayRegion(arr Object, start int, buf []uint16) error
	SetShortArrayRegion(arr Object, start int, buf []int16) error
	SetIntArrayRegion(arr Object, start int, buf []int32) error
	SetLongArrayRegion(arr Object, start int, buf []int64) error
	SetFloatArrayRegion(arr Object, start int, buf []float32) error
	SetDoubleArrayRegion(arr Object, start int, buf []float64) error

	// NewObjectArray allocates an array of n elements of the class given in
	// JNI form (java/lang/String), each set to init.
	NewObjectArray(n int, class string, init Object) (Object, error)
	SetObjectArrayElement(arr Object, index int, v Object) error
}

type Env interface {
	Caller
	Arrays
}

// Exception is the error CatchException implementations return for a
// pending Java exception.
type Exception struct {
	Class   string
	Message string
}

func (e *Exception) Error() string {
	if e.Message == "" {
		return e.Class
	}
	return e.Class + ": " + e.Message
}
