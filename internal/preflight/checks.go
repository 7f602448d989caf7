package preflight

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"golang.org/x/sys/unix"

	"voicebooth/internal/audio"
)

const mib = 1024 * 1024

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckFreeSpace reports the space available to unprivileged writers on the
// filesystem holding path. Falling under minMiB is a warning, not a failure.
func CheckFreeSpace(name, path string, minMiB uint64) Result {
	var st unix.Statfs_t
	if err := unix.Statfs(path, &st); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: statfs: %v)", path, err)}
	}
	free := st.Bavail * uint64(st.Bsize) / mib
	if free < minMiB {
		return Result{
			Name:    name,
			Passed:  true,
			Warning: true,
			Detail:  fmt.Sprintf("%d MiB free (below %d MiB)", free, minMiB),
		}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%d MiB free", free)}
}

// CheckCorpus verifies the corpus file is readable and has at least one
// well-formed line.
func CheckCorpus(name, path string) Result {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", path, err)}
	}
	defer f.Close()

	var good, bad int
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if strings.Count(line, "|") == 2 {
			good++
		} else {
			bad++
		}
	}
	if err := scanner.Err(); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: read: %v)", path, err)}
	}
	if good == 0 {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: no id|text|text lines)", path)}
	}
	detail := fmt.Sprintf("%s (%d sentences)", path, good)
	if bad > 0 {
		return Result{Name: name, Passed: true, Warning: true, Detail: fmt.Sprintf("%s (%d sentences, %d malformed lines)", path, good, bad)}
	}
	return Result{Name: name, Passed: true, Detail: detail}
}

// CheckReferenceAudio verifies the reference WAV parses as 16-bit mono PCM.
func CheckReferenceAudio(name, path string) Result {
	format, err := audio.ReadWAVFormatFile(path)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("error: %v", err)}
	}
	if format.SampleWidth() != audio.SampleWidth16 || format.Channels != 1 {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: need 16-bit mono, got %s)", path, format)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%s)", path, format)}
}
