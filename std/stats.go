// The MIT License (MIT)
//
// # Copyright (c) 2016 xtaci
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package std

import (
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"
)

// FecStats holds the running counters a sender or receiver exposes for
// periodic logging. All fields are updated with atomic operations so the
// hot path never blocks on a logger tick.
type FecStats struct {
	WindowsEncoded  uint64
	OriginalsSent   uint64
	RecoverySent    uint64
	BytesSent       uint64
	OriginalsRecv   uint64
	RecoveryRecv    uint64
	OriginalsMissed uint64
	BytesRecv       uint64
}

func (s *FecStats) header() []string {
	return []string{"WindowsEncoded", "OriginalsSent", "RecoverySent", "BytesSent", "OriginalsRecv", "RecoveryRecv", "OriginalsMissed", "BytesRecv"}
}

func (s *FecStats) row() []string {
	return []string{
		fmt.Sprint(atomic.LoadUint64(&s.WindowsEncoded)),
		fmt.Sprint(atomic.LoadUint64(&s.OriginalsSent)),
		fmt.Sprint(atomic.LoadUint64(&s.RecoverySent)),
		fmt.Sprint(atomic.LoadUint64(&s.BytesSent)),
		fmt.Sprint(atomic.LoadUint64(&s.OriginalsRecv)),
		fmt.Sprint(atomic.LoadUint64(&s.RecoveryRecv)),
		fmt.Sprint(atomic.LoadUint64(&s.OriginalsMissed)),
		fmt.Sprint(atomic.LoadUint64(&s.BytesRecv)),
	}
}

// StatsLogger periodically appends a CSV row of s to path, in the same
// timestamped-filename style as kcptun's old snmp collector. It returns once
// interval or path is zero.
func StatsLogger(s *FecStats, path string, interval int) {
	if path == "" || interval == 0 {
		return
	}
	ticker := time.NewTicker(time.Duration(interval) * time.Second)
	defer ticker.Stop()
	for range ticker.C {
		logdir, logfile := filepath.Split(path)
		f, err := os.OpenFile(logdir+time.Now().Format(logfile), os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
		if err != nil {
			log.Println(err)
			return
		}
		w := csv.NewWriter(f)
		if stat, err := f.Stat(); err == nil && stat.Size() == 0 {
			if err := w.Write(append([]string{"Unix"}, s.header()...)); err != nil {
				log.Println(err)
			}
		}
		if err := w.Write(append([]string{fmt.Sprint(time.Now().Unix())}, s.row()...)); err != nil {
			log.Println(err)
		}
		w.Flush()
		f.Close()
	}
}
