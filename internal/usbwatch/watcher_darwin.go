package usbwatch

import (
	"context"
	"fmt"
	"log"
	"runtime"
	"sync"
	"unsafe"

	"github.com/ebitengine/purego"
)

// CoreFoundation and IOKit handle types.
type (
	cfAllocatorRef  uintptr
	cfDictionaryRef uintptr
	cfIndex         int64
	cfNumberRef     uintptr
	cfRunLoopRef    uintptr
	cfStringRef     uintptr
	cfTypeRef       uintptr

	cfStringEncoding uint32

	hidDeviceRef  uintptr
	hidManagerRef uintptr
	ioOptionBits  uint32
	ioReturn      int32
)

const (
	allocatorDefault   cfAllocatorRef   = 0
	numberSInt16Type   cfIndex          = 2
	stringEncodingUTF8 cfStringEncoding = 0x08000100

	optionsNone ioOptionBits = 0
	ioSuccess   ioReturn     = 0

	coreFoundationPath = "/System/Library/Frameworks/CoreFoundation.framework/CoreFoundation"
	ioKitPath          = "/System/Library/Frameworks/IOKit.framework/IOKit"
)

var (
	numberGetValue        func(number cfNumberRef, theType cfIndex, valuePtr unsafe.Pointer) bool
	release               func(cf cfTypeRef)
	runLoopGetCurrent     func() cfRunLoopRef
	runLoopRun            func()
	runLoopStop           func(runLoop cfRunLoopRef)
	stringCreateWithBytes func(alloc cfAllocatorRef, bytes []byte, numBytes cfIndex, encoding cfStringEncoding, external bool) cfStringRef

	deviceGetProperty       func(device hidDeviceRef, key cfStringRef) cfTypeRef
	managerClose            func(manager hidManagerRef, options ioOptionBits) ioReturn
	managerCreate           func(allocator cfAllocatorRef, options ioOptionBits) hidManagerRef
	managerOpen             func(manager hidManagerRef, options ioOptionBits) ioReturn
	managerSetDeviceMatch   func(manager hidManagerRef, matching cfDictionaryRef)
	managerRegisterMatching func(manager hidManagerRef, callback uintptr, context unsafe.Pointer)
	managerSchedule         func(manager hidManagerRef, runLoop cfRunLoopRef, mode cfStringRef)

	runLoopDefaultMode uintptr
	matchingCallback   uintptr
)

var (
	loadOnce sync.Once
	loadErr  error
)

// load binds the frameworks the first time a watcher starts.
func load() error {
	loadOnce.Do(func() {
		cf, err := purego.Dlopen(coreFoundationPath, purego.RTLD_LAZY|purego.RTLD_GLOBAL)
		if err != nil {
			loadErr = fmt.Errorf("usbwatch: loading CoreFoundation: %w", err)
			return
		}
		purego.RegisterLibFunc(&numberGetValue, cf, "CFNumberGetValue")
		purego.RegisterLibFunc(&release, cf, "CFRelease")
		purego.RegisterLibFunc(&runLoopGetCurrent, cf, "CFRunLoopGetCurrent")
		purego.RegisterLibFunc(&runLoopRun, cf, "CFRunLoopRun")
		purego.RegisterLibFunc(&runLoopStop, cf, "CFRunLoopStop")
		purego.RegisterLibFunc(&stringCreateWithBytes, cf, "CFStringCreateWithBytes")

		runLoopDefaultMode, err = purego.Dlsym(cf, "kCFRunLoopDefaultMode")
		if err != nil {
			loadErr = fmt.Errorf("usbwatch: resolving run loop mode: %w", err)
			return
		}

		iokit, err := purego.Dlopen(ioKitPath, purego.RTLD_LAZY|purego.RTLD_GLOBAL)
		if err != nil {
			loadErr = fmt.Errorf("usbwatch: loading IOKit: %w", err)
			return
		}
		purego.RegisterLibFunc(&deviceGetProperty, iokit, "IOHIDDeviceGetProperty")
		purego.RegisterLibFunc(&managerClose, iokit, "IOHIDManagerClose")
		purego.RegisterLibFunc(&managerCreate, iokit, "IOHIDManagerCreate")
		purego.RegisterLibFunc(&managerOpen, iokit, "IOHIDManagerOpen")
		purego.RegisterLibFunc(&managerSetDeviceMatch, iokit, "IOHIDManagerSetDeviceMatching")
		purego.RegisterLibFunc(&managerRegisterMatching, iokit, "IOHIDManagerRegisterDeviceMatchingCallback")
		purego.RegisterLibFunc(&managerSchedule, iokit, "IOHIDManagerScheduleWithRunLoop")

		matchingCallback = purego.NewCallback(onDeviceMatched)
	})
	return loadErr
}

// watcher is the state the IOKit callback reports into. Only one watcher
// runs at a time; active keeps it reachable while the callback is live.
type watcher struct {
	ch       chan struct{}
	vendorID uint16
}

var (
	activeMu sync.Mutex
	active   *watcher
)

func onDeviceMatched(_ unsafe.Pointer, _ ioReturn, _ uintptr, device hidDeviceRef) {
	activeMu.Lock()
	w := active
	activeMu.Unlock()
	if w == nil {
		return
	}

	vid, ok := vendorOf(device)
	if !ok || vid != w.vendorID {
		return
	}
	log.Printf("USB device arrived (vendor 0x%04x)", vid)
	notify(w.ch)
}

func vendorOf(device hidDeviceRef) (uint16, bool) {
	key := []byte("VendorID")
	skey := stringCreateWithBytes(allocatorDefault, key, cfIndex(len(key)), stringEncodingUTF8, false)
	if skey == 0 {
		return 0, false
	}
	defer release(cfTypeRef(skey))

	prop := deviceGetProperty(device, skey)
	if prop == 0 {
		return 0, false
	}
	var vid uint16
	if !numberGetValue(cfNumberRef(prop), numberSInt16Type, unsafe.Pointer(&vid)) {
		return 0, false
	}
	return vid, true
}

// Watch returns a channel that receives a signal each time a HID device
// with vendorID appears. IOKit also reports devices already attached when
// the watcher starts. The watcher stops when ctx is done.
func Watch(ctx context.Context, vendorID uint16) (<-chan struct{}, error) {
	if err := load(); err != nil {
		return nil, err
	}

	w := &watcher{ch: make(chan struct{}, 1), vendorID: vendorID}
	activeMu.Lock()
	if active != nil {
		activeMu.Unlock()
		return nil, fmt.Errorf("usbwatch: a watcher is already running")
	}
	active = w
	activeMu.Unlock()

	started := make(chan error, 1)
	go func() {
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()
		defer func() {
			activeMu.Lock()
			active = nil
			activeMu.Unlock()
		}()

		mgr := managerCreate(allocatorDefault, optionsNone)
		if rv := managerOpen(mgr, optionsNone); rv != ioSuccess {
			release(cfTypeRef(mgr))
			started <- fmt.Errorf("usbwatch: opening HID manager: 0x%08x", uint32(rv))
			return
		}

		// Match every HID device; the callback filters by vendor.
		managerSetDeviceMatch(mgr, 0)

		rl := runLoopGetCurrent()
		managerSchedule(mgr, rl, **(**cfStringRef)(unsafe.Pointer(&runLoopDefaultMode)))
		managerRegisterMatching(mgr, matchingCallback, nil)
		started <- nil

		go func() {
			<-ctx.Done()
			runLoopStop(rl)
		}()

		log.Println("usbwatch: listening for device arrivals")
		runLoopRun()

		managerClose(mgr, optionsNone)
		release(cfTypeRef(mgr))
		log.Println("usbwatch: stopped")
	}()

	if err := <-started; err != nil {
		return nil, err
	}
	return w.ch, nil
}
