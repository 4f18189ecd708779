//go:build linux || darwin || freebsd

package main

import (
	"log"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
)

func init() {
	go sigHandler()
}

func sigHandler() {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGUSR1)
	signal.Ignore(syscall.SIGPIPE)

	for range ch {
		log.Printf("fec stats: windows=%d originals=%d recovery=%d bytes=%d",
			atomic.LoadUint64(&stats.WindowsEncoded),
			atomic.LoadUint64(&stats.OriginalsSent),
			atomic.LoadUint64(&stats.RecoverySent),
			atomic.LoadUint64(&stats.BytesSent))
	}
}
