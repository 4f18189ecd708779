package main

import (
	"fmt"
	"math/rand"

	"github.com/pkg/errors"
	kcp "github.com/xtaci/kcp-go/v5"
	"github.com/xtaci/lanefec/std"
	"github.com/xtaci/tcpraw"
)

// dial establishes the outbound UDP (or raw-TCP-emulated) session that
// carries the smux-multiplexed fec stream. FEC recovery here is our own
// package's job, not kcp-go's built-in Reed-Solomon layer, so both shard
// counts are pinned to zero.
//
// RemoteAddr may name a port range ("host:20000-20100") instead of a
// single port; resolveRemoteAddr picks one port from the range so
// repeated runs of send spread across the range instead of always
// landing on the same listener.
func dial(config *Config, block kcp.BlockCrypt) (*kcp.UDPSession, error) {
	remote := resolveRemoteAddr(config.RemoteAddr)
	if config.TCP {
		conn, err := tcpraw.Dial("tcp", remote)
		if err != nil {
			return nil, errors.Wrap(err, "tcpraw.Dial()")
		}
		return kcp.NewConn(remote, block, 0, 0, conn)
	}
	return kcp.DialWithOptions(remote, block, 0, 0)
}

// resolveRemoteAddr picks a single host:port from a plain address or a
// multi-port range. Addresses that don't parse as a range are returned
// unchanged.
func resolveRemoteAddr(addr string) string {
	mp, err := std.ParseMultiPort(addr)
	if err != nil {
		return addr
	}
	port := mp.MinPort
	if mp.MaxPort > mp.MinPort {
		port = mp.MinPort + uint64(rand.Intn(int(mp.MaxPort-mp.MinPort+1)))
	}
	return fmt.Sprintf("%s:%d", mp.Host, port)
}
