// Package capi exposes the core library through opaque handles, the way a
// foreign-function binding layer consumes it.
//
// All objects live in a mutex-guarded handle table; handles are small
// reusable integers with a kind tag, so using a disposed handle, the wrong
// kind of handle, or disposing twice is detected and reported instead of
// corrupting memory. Consuming operations (ModuleValidate) take the handle
// atomically: exactly one concurrent caller wins and every other observes
// an invalid handle.
//
// Fallible operations return an error Handle, zero meaning success:
//
//	api := capi.New()
//	mod := api.NewModule()
//	id, errh := api.IdentifierFromUTF8([]byte("MyModule"))
//	if errh != 0 {
//	    msg, _ := api.ErrorMessage(errh)
//	    api.DisposeError(errh)
//	    log.Fatal(msg)
//	}
//	api.ModuleAddMetadataName(mod, id)
//	browser, errh := api.ModuleValidate(mod) // mod is consumed here
package capi
