//go:build !linux

package main

import kcp "github.com/xtaci/kcp-go/v5"

func listen(config *Config, block kcp.BlockCrypt) (*kcp.Listener, error) {
	return kcp.ListenWithOptions(config.Listen, block, 0, 0)
}
