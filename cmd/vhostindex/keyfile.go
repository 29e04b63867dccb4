package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
	"golang.org/x/sys/unix"
	"k8s.io/klog/v2"

	"github.com/rpcpool/vhostindex"
)

// keyEntry is one parsed line of a key file: "key<TAB>hex-value".
type keyEntry struct {
	key   string
	value vhostindex.Value
}

// readKeyFile parses a newline-delimited key file, showing import progress
// on a progress bar sized from the file's byte length. It fadvises the
// descriptor for sequential access first, the way compactindexsized/query.go
// fadvises its index file for the access pattern it expects.
func readKeyFile(path string) ([]keyEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening key file: %w", err)
	}
	defer f.Close()

	if err := unix.Fadvise(int(f.Fd()), 0, 0, unix.FADV_SEQUENTIAL); err != nil {
		klog.V(2).Infof("fadvise(SEQUENTIAL) on %s failed: %v", path, err)
	}

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat key file: %w", err)
	}

	progress := mpb.New(mpb.WithWidth(40))
	bar := progress.AddBar(info.Size(),
		mpb.PrependDecorators(decor.Name("reading "+path)),
		mpb.AppendDecorators(decor.CountersKibiByte("% .1f / % .1f")),
	)

	var entries []keyEntry
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		bar.IncrBy(len(line) + 1)
		if line == "" {
			continue
		}
		key, valueHex, ok := strings.Cut(line, "\t")
		if !ok {
			return nil, fmt.Errorf("key file %s:%d: expected key<TAB>hex-value", path, lineNo)
		}
		value, err := strconv.ParseUint(valueHex, 16, 64)
		if err != nil {
			return nil, fmt.Errorf("key file %s:%d: bad hex value %q: %w", path, lineNo, valueHex, err)
		}
		entries = append(entries, keyEntry{key: key, value: vhostindex.Value(value)})
	}
	if err := scanner.Err(); err != nil && err != io.EOF {
		return nil, fmt.Errorf("scanning key file: %w", err)
	}
	bar.SetCurrent(info.Size())
	progress.Wait()

	klog.Infof("parsed %s keys from %s", humanize.Comma(int64(len(entries))), path)
	return entries, nil
}
