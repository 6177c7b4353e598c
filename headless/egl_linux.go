//go:build linux

package headless

import (
	"fmt"
	"log"
	"unsafe"
)

/*
#cgo LDFLAGS: -lEGL
#include <EGL/egl.h>
#include <EGL/eglext.h>

static PFNEGLQUERYDEVICESEXTPROC eglQueryDevicesEXT_ptr = NULL;
static PFNEGLGETPLATFORMDISPLAYEXTPROC eglGetPlatformDisplayEXT_ptr = NULL;

static void initialize_egl_extension_pointers() {
    eglQueryDevicesEXT_ptr = (PFNEGLQUERYDEVICESEXTPROC) eglGetProcAddress("eglQueryDevicesEXT");
    eglGetPlatformDisplayEXT_ptr = (PFNEGLGETPLATFORMDISPLAYEXTPROC) eglGetProcAddress("eglGetPlatformDisplayEXT");
}

static EGLDisplay get_platform_display(EGLenum platform, void *native_display, const EGLint *attrib_list) {
    if (eglGetPlatformDisplayEXT_ptr) {
        return eglGetPlatformDisplayEXT_ptr(platform, native_display, attrib_list);
    }
    return EGL_NO_DISPLAY;
}

static EGLBoolean query_devices(EGLint max_devices, EGLDeviceEXT *devices, EGLint *num_devices) {
    if (eglQueryDevicesEXT_ptr) {
        return eglQueryDevicesEXT_ptr(max_devices, devices, num_devices);
    }
    return EGL_FALSE;
}
*/
import "C"

// pbuffer is an EGL pbuffer surface with a desktop OpenGL 4.1 core
// context bound to it.
type pbuffer struct {
	display C.EGLDisplay
	context C.EGLContext
	surface C.EGLSurface
}

// display enumerates EGL devices and falls back to the default display
// when device enumeration is unavailable.
func display() (C.EGLDisplay, error) {
	C.initialize_egl_extension_pointers()

	var n C.EGLint
	if C.query_devices(0, nil, &n) == C.EGL_FALSE || n == 0 {
		log.Println("EGL device query unavailable, using the default display")
		d := C.eglGetDisplay(C.EGLNativeDisplayType(C.EGL_DEFAULT_DISPLAY))
		if d == C.EGLDisplay(C.EGL_NO_DISPLAY) {
			return d, fmt.Errorf("no default EGL display")
		}
		return d, nil
	}

	devices := make([]C.EGLDeviceEXT, n)
	if C.query_devices(n, &devices[0], &n) == C.EGL_FALSE {
		return C.EGLDisplay(C.EGL_NO_DISPLAY), fmt.Errorf("failed to query EGL devices")
	}
	for i := 0; i < int(n); i++ {
		d := C.get_platform_display(C.EGL_PLATFORM_DEVICE_EXT, unsafe.Pointer(devices[i]), nil)
		if d != C.EGLDisplay(C.EGL_NO_DISPLAY) {
			log.Printf("Using EGL device %d of %d", i, n)
			return d, nil
		}
	}
	return C.EGLDisplay(C.EGL_NO_DISPLAY), fmt.Errorf("no usable EGL device among %d", n)
}

func newSurface(width, height int) (surface, error) {
	p := &pbuffer{
		display: C.EGLDisplay(C.EGL_NO_DISPLAY),
		context: C.EGLContext(C.EGL_NO_CONTEXT),
		surface: C.EGLSurface(C.EGL_NO_SURFACE),
	}
	var err error
	if p.display, err = display(); err != nil {
		return nil, err
	}

	var major, minor C.EGLint
	if C.eglInitialize(p.display, &major, &minor) == C.EGL_FALSE {
		return nil, fmt.Errorf("failed to initialize EGL")
	}
	log.Printf("EGL initialized, version %d.%d", major, minor)

	if C.eglBindAPI(C.EGL_OPENGL_API) == C.EGL_FALSE {
		p.destroy()
		return nil, fmt.Errorf("EGL display does not support desktop OpenGL")
	}

	configAttribs := []C.EGLint{
		C.EGL_SURFACE_TYPE, C.EGL_PBUFFER_BIT,
		C.EGL_RED_SIZE, 8,
		C.EGL_GREEN_SIZE, 8,
		C.EGL_BLUE_SIZE, 8,
		C.EGL_ALPHA_SIZE, 8,
		C.EGL_DEPTH_SIZE, 24,
		C.EGL_RENDERABLE_TYPE, C.EGL_OPENGL_BIT,
		C.EGL_NONE,
	}
	var config C.EGLConfig
	var numConfig C.EGLint
	if C.eglChooseConfig(p.display, &configAttribs[0], &config, 1, &numConfig) == C.EGL_FALSE || numConfig == 0 {
		p.destroy()
		return nil, fmt.Errorf("no EGL config for an OpenGL pbuffer")
	}

	pbufferAttribs := []C.EGLint{
		C.EGL_WIDTH, C.EGLint(width),
		C.EGL_HEIGHT, C.EGLint(height),
		C.EGL_NONE,
	}
	p.surface = C.eglCreatePbufferSurface(p.display, config, &pbufferAttribs[0])
	if p.surface == C.EGLSurface(C.EGL_NO_SURFACE) {
		p.destroy()
		return nil, fmt.Errorf("failed to create %dx%d pbuffer", width, height)
	}

	contextAttribs := []C.EGLint{
		C.EGL_CONTEXT_MAJOR_VERSION, 4,
		C.EGL_CONTEXT_MINOR_VERSION, 1,
		C.EGL_CONTEXT_OPENGL_PROFILE_MASK, C.EGL_CONTEXT_OPENGL_CORE_PROFILE_BIT,
		C.EGL_NONE,
	}
	p.context = C.eglCreateContext(p.display, config, C.EGLContext(C.EGL_NO_CONTEXT), &contextAttribs[0])
	if p.context == C.EGLContext(C.EGL_NO_CONTEXT) {
		p.destroy()
		return nil, fmt.Errorf("failed to create an OpenGL 4.1 core context")
	}
	return p, nil
}

func (p *pbuffer) makeCurrent() {
	C.eglMakeCurrent(p.display, p.surface, p.surface, p.context)
}

func (p *pbuffer) swap() {
	C.eglSwapBuffers(p.display, p.surface)
}

func (p *pbuffer) destroy() {
	if p.display == C.EGLDisplay(C.EGL_NO_DISPLAY) {
		return
	}
	C.eglMakeCurrent(p.display, C.EGLSurface(C.EGL_NO_SURFACE), C.EGLSurface(C.EGL_NO_SURFACE), C.EGLContext(C.EGL_NO_CONTEXT))
	if p.context != C.EGLContext(C.EGL_NO_CONTEXT) {
		C.eglDestroyContext(p.display, p.context)
	}
	if p.surface != C.EGLSurface(C.EGL_NO_SURFACE) {
		C.eglDestroySurface(p.display, p.surface)
	}
	C.eglTerminate(p.display)
	p.display = C.EGLDisplay(C.EGL_NO_DISPLAY)
}
