//go:build braw

package braw

/*
#include "shim.h"
*/
import "C"

import (
	"unsafe"

	pointer "github.com/mattn/go-pointer"
)

func restoreCallback(userData unsafe.Pointer) (Callback, bool) {
	cb, ok := pointer.Restore(userData).(Callback)
	return cb, ok
}

//export goBrawReadComplete
func goBrawReadComplete(userData unsafe.Pointer, job unsafe.Pointer, result C.uint32_t, frame unsafe.Pointer) {
	cb, ok := restoreCallback(userData)
	if !ok {
		return
	}
	cb.ReadComplete(&nativeJob{h: C.braw_handle(job), borrowed: true}, Status(result), &nativeFrame{h: C.braw_handle(frame)})
}

//export goBrawProcessComplete
func goBrawProcessComplete(userData unsafe.Pointer, job unsafe.Pointer, result C.uint32_t, image unsafe.Pointer) {
	var processed ProcessedImage
	if image != nil {
		processed = &nativeProcessedImage{h: C.braw_handle(image)}
	}

	cb, ok := restoreCallback(userData)
	if !ok {
		if processed != nil {
			processed.Release()
		}
		return
	}
	cb.ProcessComplete(&nativeJob{h: C.braw_handle(job), borrowed: true}, Status(result), processed)
}
