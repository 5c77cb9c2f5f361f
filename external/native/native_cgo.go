//go:build cgo && (linux || darwin)

package native

/*
#cgo linux LDFLAGS: -ldl
#include <dlfcn.h>
#include <stdint.h>
#include <stdlib.h>

typedef int32_t (*pv_leopard_init_fn)(const char *, const char *, void **);
typedef void (*pv_leopard_delete_fn)(void *);
typedef int32_t (*pv_leopard_process_fn)(void *, const int16_t *, int32_t, char **);
typedef int32_t (*pv_leopard_process_file_fn)(void *, const char *, char **);
typedef int32_t (*pv_sample_rate_fn)(void);
typedef const char *(*pv_leopard_version_fn)(void);

static int32_t leopard_init(void *f, const char *access_key, const char *model_path, void **object) {
	return ((pv_leopard_init_fn)f)(access_key, model_path, object);
}

static void leopard_delete(void *f, void *object) {
	((pv_leopard_delete_fn)f)(object);
}

static int32_t leopard_process(void *f, void *object, const int16_t *pcm, int32_t num_samples, char **transcript) {
	return ((pv_leopard_process_fn)f)(object, pcm, num_samples, transcript);
}

static int32_t leopard_process_file(void *f, void *object, const char *path, char **transcript) {
	return ((pv_leopard_process_file_fn)f)(object, path, transcript);
}

static int32_t leopard_sample_rate(void *f) {
	return ((pv_sample_rate_fn)f)();
}

static const char *leopard_version(void *f) {
	return ((pv_leopard_version_fn)f)();
}
*/
import "C"

import (
	"fmt"
	"sync"
	"unsafe"

	"github.com/foxseedlab/leopard/internal/engine"
)

type symbols struct {
	init        unsafe.Pointer
	deleteObj   unsafe.Pointer
	process     unsafe.Pointer
	processFile unsafe.Pointer
	sampleRate  unsafe.Pointer
	version     unsafe.Pointer
}

// dlEngine calls into one dlopen'ed library. Native objects never leave this
// file; callers see table keys instead.
type dlEngine struct {
	lib  unsafe.Pointer
	syms symbols

	mu      sync.Mutex
	next    engine.Handle
	objects map[engine.Handle]unsafe.Pointer
}

var (
	librariesMu sync.Mutex
	libraries   = map[string]*dlEngine{}
)

func load(libraryPath string) (engine.Engine, error) {
	librariesMu.Lock()
	defer librariesMu.Unlock()
	if e, ok := libraries[libraryPath]; ok {
		return e, nil
	}

	cPath := C.CString(libraryPath)
	defer C.free(unsafe.Pointer(cPath))

	lib := C.dlopen(cPath, C.RTLD_NOW)
	if lib == nil {
		return nil, fmt.Errorf("dlopen %s: %s", libraryPath, C.GoString(C.dlerror()))
	}

	e := &dlEngine{lib: lib, objects: map[engine.Handle]unsafe.Pointer{}}
	for name, dst := range map[string]*unsafe.Pointer{
		"pv_leopard_init":         &e.syms.init,
		"pv_leopard_delete":       &e.syms.deleteObj,
		"pv_leopard_process":      &e.syms.process,
		"pv_leopard_process_file": &e.syms.processFile,
		"pv_sample_rate":          &e.syms.sampleRate,
		"pv_leopard_version":      &e.syms.version,
	} {
		sym, err := lookup(lib, name)
		if err != nil {
			C.dlclose(lib)
			return nil, err
		}
		*dst = sym
	}

	libraries[libraryPath] = e
	return e, nil
}

func lookup(lib unsafe.Pointer, name string) (unsafe.Pointer, error) {
	cName := C.CString(name)
	defer C.free(unsafe.Pointer(cName))
	sym := C.dlsym(lib, cName)
	if sym == nil {
		return nil, fmt.Errorf("symbol %s not found", name)
	}
	return sym, nil
}

func (e *dlEngine) Init(accessKey, modelPath string) (engine.Handle, engine.Status) {
	cKey := C.CString(accessKey)
	defer C.free(unsafe.Pointer(cKey))
	cModel := C.CString(modelPath)
	defer C.free(unsafe.Pointer(cModel))

	var obj unsafe.Pointer
	status := engine.Status(C.leopard_init(e.syms.init, cKey, cModel, &obj))
	if status != engine.StatusSuccess {
		return 0, status
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.next++
	e.objects[e.next] = obj
	return e.next, engine.StatusSuccess
}

func (e *dlEngine) Delete(h engine.Handle) {
	e.mu.Lock()
	obj, ok := e.objects[h]
	delete(e.objects, h)
	e.mu.Unlock()
	if !ok {
		return
	}
	C.leopard_delete(e.syms.deleteObj, obj)
}

func (e *dlEngine) object(h engine.Handle) (unsafe.Pointer, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	obj, ok := e.objects[h]
	return obj, ok
}

func (e *dlEngine) Process(h engine.Handle, pcm []int16) (string, engine.Status) {
	obj, ok := e.object(h)
	if !ok {
		return "", engine.StatusInvalidState
	}

	var pcmPtr *C.int16_t
	if len(pcm) > 0 {
		pcmPtr = (*C.int16_t)(unsafe.Pointer(&pcm[0]))
	}
	var transcript *C.char
	status := engine.Status(C.leopard_process(e.syms.process, obj, pcmPtr, C.int32_t(len(pcm)), &transcript))
	return takeTranscript(transcript), status
}

func (e *dlEngine) ProcessFile(h engine.Handle, path string) (string, engine.Status) {
	obj, ok := e.object(h)
	if !ok {
		return "", engine.StatusInvalidState
	}

	cPath := C.CString(path)
	defer C.free(unsafe.Pointer(cPath))

	var transcript *C.char
	status := engine.Status(C.leopard_process_file(e.syms.processFile, obj, cPath, &transcript))
	return takeTranscript(transcript), status
}

func (e *dlEngine) SampleRate() int {
	return int(C.leopard_sample_rate(e.syms.sampleRate))
}

func (e *dlEngine) Version() string {
	return C.GoString(C.leopard_version(e.syms.version))
}

// takeTranscript copies and frees a transcript allocated by the engine.
func takeTranscript(transcript *C.char) string {
	if transcript == nil {
		return ""
	}
	defer C.free(unsafe.Pointer(transcript))
	return C.GoString(transcript)
}
