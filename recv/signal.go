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
		log.Printf("fec stats: originals=%d recovery=%d missed=%d bytes=%d",
			atomic.LoadUint64(&stats.OriginalsRecv),
			atomic.LoadUint64(&stats.RecoveryRecv),
			atomic.LoadUint64(&stats.OriginalsMissed),
			atomic.LoadUint64(&stats.BytesRecv))
	}
}
