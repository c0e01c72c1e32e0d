package lib

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/fatih/color"
	"github.com/golang/glog"
	"github.com/shibukawa/configdir"
)

var (
	Cyan    = color.New(color.FgCyan)
	Magenta = color.New(color.FgMagenta)
	Yellow  = color.New(color.FgHiYellow)
	Green   = color.New(color.FgHiGreen)
	Blue    = color.New(color.FgBlue)
	Red     = color.New(color.FgRed)
)

func CLog(c *color.Color, str string) string {
	return c.Sprint(str)
}

// GetThreadCount returns numThreads when it is positive. Otherwise it leaves
// one core for the rest of the process, but never returns less than one.
func GetThreadCount(numThreads int) int {
	if numThreads > 0 {
		return numThreads
	}
	numThreads = runtime.NumCPU() - 1
	if numThreads < 1 {
		numThreads = 1
	}
	return numThreads
}

// GetDataDir returns the per-user directory we keep logs and profiles in,
// creating it if needed.
func GetDataDir() string {
	configDirs := configdir.New(
		ConfigDirVendorName, ConfigDirAppName)
	dataDir := configDirs.QueryFolders(configdir.Global)[0].Path
	if err := os.MkdirAll(dataDir, os.ModePerm); err != nil {
		glog.Fatalf("GetDataDir: Could not create data directories (%s): %v", dataDir, err)
	}
	return dataDir
}

func GetLogDir() string {
	logDir := filepath.Join(GetDataDir(), "logs")
	if err := os.MkdirAll(logDir, os.ModePerm); err != nil {
		glog.Fatalf("GetLogDir: Could not create log directory (%s): %v", logDir, err)
	}
	return logDir
}

func MinInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
