//go:build windows

package config

import (
	"os"
	"strings"

	"golang.org/x/sys/windows"
	"golang.org/x/sys/windows/registry"
	"golang.org/x/term"
)

// CleanFileName makes name safe to be used as a single path element,
// removing characters reserved by Windows.
func CleanFileName(in string) string {
	out := strings.TrimRight(strings.Map(func(sym rune) rune {
		if sym < 32 || strings.ContainsRune(`<>":/\|?*`+string(os.PathListSeparator), sym) {
			return -1
		}
		return sym
	}, in), ". ")
	out = strings.TrimLeft(out, ".")
	if len(out) == 0 {
		out = "_bad_file_name_"
	}
	return out
}

// EnableColorOutput checks if colorized output is possible and enables VT100
// sequence processing in Windows console (Windows 10 and later).
func EnableColorOutput(stream *os.File) bool {
	if !term.IsTerminal(int(stream.Fd())) {
		return false
	}

	k, err := registry.OpenKey(registry.LOCAL_MACHINE, `SOFTWARE\Microsoft\Windows NT\CurrentVersion`, registry.QUERY_VALUE)
	if err != nil {
		return false
	}
	defer k.Close()

	if v, _, err := k.GetIntegerValue("CurrentMajorVersionNumber"); err != nil || v < 10 {
		return false
	}

	var mode uint32
	if err := windows.GetConsoleMode(windows.Handle(stream.Fd()), &mode); err != nil {
		return false
	}
	const enableVirtualTerminalProcessing uint32 = 0x4
	return windows.SetConsoleMode(windows.Handle(stream.Fd()), mode|enableVirtualTerminalProcessing) == nil
}
