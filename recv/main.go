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

// Command recv accepts send's smux-multiplexed kcp tunnel, reassembles the
// original file from the FrameOriginal frames of each window in order, and
// tallies the accompanying FrameRecovery symbols. It never runs a decoder:
// reconstructing missing originals from recovery symbols is explicitly out
// of scope for this package (see the root doc.go).
package main

import (
	"crypto/sha1"
	"io"
	"log"
	"os"
	"sync/atomic"

	"golang.org/x/crypto/pbkdf2"

	"github.com/pkg/errors"
	"github.com/urfave/cli"
	kcp "github.com/xtaci/kcp-go/v5"
	"github.com/xtaci/lanefec/std"
	"github.com/xtaci/qpp"
	"github.com/xtaci/smux"
)

const SALT = "kcp-go"

var VERSION = "SELFBUILD"

var stats std.FecStats

func main() {
	if VERSION == "SELFBUILD" {
		log.SetFlags(log.LstdFlags | log.Lshortfile)
	}

	myApp := cli.NewApp()
	myApp.Name = "recv"
	myApp.Usage = "fec-protected file receiver (with SMUX)"
	myApp.Version = VERSION
	myApp.Flags = []cli.Flag{
		cli.StringFlag{Name: "listen, l", Value: ":29900", Usage: "listen address"},
		cli.StringFlag{Name: "key", Value: "it's a secrect", EnvVar: "LANEFEC_KEY", Usage: "pre-shared secret between send and recv"},
		cli.StringFlag{Name: "crypt", Value: "aes", Usage: "aes, aes-128, aes-128-gcm, aes-192, salsa20, blowfish, twofish, cast5, 3des, tea, xtea, xor, sm4, none, null"},
		cli.IntFlag{Name: "mtu", Value: 1350, Usage: "maximum transmission unit for UDP packets"},
		cli.IntFlag{Name: "sndwnd", Value: 1024, Usage: "send window size(num of packets)"},
		cli.IntFlag{Name: "rcvwnd", Value: 1024, Usage: "receive window size(num of packets)"},
		cli.IntFlag{Name: "dscp", Value: 0, Usage: "set DSCP(6bit)"},
		cli.BoolFlag{Name: "nocomp", Usage: "disable compression"},
		cli.IntFlag{Name: "sockbuf", Value: 4194304, Usage: "per-socket buffer in bytes"},
		cli.IntFlag{Name: "smuxver", Value: 2, Usage: "specify smux version, available 1,2"},
		cli.IntFlag{Name: "smuxbuf", Value: 4194304, Usage: "the overall de-mux buffer in bytes"},
		cli.IntFlag{Name: "streambuf", Value: 2097152, Usage: "per stream receive buffer in bytes, smux v2+"},
		cli.IntFlag{Name: "keepalive", Value: 10, Usage: "seconds between heartbeats"},
		cli.StringFlag{Name: "output, o", Value: "", Usage: "file to write reassembled originals to, defaults to stdout"},
		cli.BoolFlag{Name: "QPP", Usage: "enable Quantum Permutation Pads(QPP) on top of the fec-framed stream"},
		cli.IntFlag{Name: "QPPCount", Value: 61, Usage: "the prime number of pads to use for QPP"},
		cli.StringFlag{Name: "statslog", Value: "", Usage: "collect fec stats to file, aware of timeformat in golang, like: ./stats-20060102.log"},
		cli.IntFlag{Name: "statsperiod", Value: 60, Usage: "stats collect period, in seconds"},
		cli.StringFlag{Name: "log", Value: "", Usage: "specify a log file to output, default goes to stderr"},
		cli.BoolFlag{Name: "quiet", Usage: "suppress per-window progress logging"},
		cli.BoolFlag{Name: "tcp", Usage: "emulate a TCP connection(linux)"},
		cli.StringFlag{Name: "c", Value: "", Usage: "config from json file, which will override the command from shell"},
	}
	myApp.Action = run
	myApp.Run(os.Args)
}

func run(c *cli.Context) error {
	config := Config{
		Listen:      c.String("listen"),
		Key:         c.String("key"),
		Crypt:       c.String("crypt"),
		MTU:         c.Int("mtu"),
		SndWnd:      c.Int("sndwnd"),
		RcvWnd:      c.Int("rcvwnd"),
		DSCP:        c.Int("dscp"),
		NoComp:      c.Bool("nocomp"),
		SockBuf:     c.Int("sockbuf"),
		SmuxBuf:     c.Int("smuxbuf"),
		StreamBuf:   c.Int("streambuf"),
		SmuxVer:     c.Int("smuxver"),
		KeepAlive:   c.Int("keepalive"),
		Output:      c.String("output"),
		StatsLog:    c.String("statslog"),
		StatsPeriod: c.Int("statsperiod"),
		Log:         c.String("log"),
		Quiet:       c.Bool("quiet"),
		TCP:         c.Bool("tcp"),
		QPP:         c.Bool("QPP"),
		QPPCount:    c.Int("QPPCount"),
	}

	if c.String("c") != "" {
		if err := parseJSONConfig(&config, c.String("c")); err != nil {
			return errors.Wrap(err, "parseJSONConfig()")
		}
	}

	if config.Log != "" {
		f, err := os.OpenFile(config.Log, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
		if err != nil {
			return errors.Wrap(err, "opening log file")
		}
		defer f.Close()
		log.SetOutput(f)
	}

	log.Println("version:", VERSION)
	log.Println("listening on:", config.Listen)

	pass := pbkdf2.Key([]byte(config.Key), []byte(SALT), 4096, 32, sha1.New)
	block, effectiveCrypt, err := std.SelectBlockCrypt(config.Crypt, pass)
	if err != nil {
		log.Println("crypt fallback:", err)
	}
	config.Crypt = effectiveCrypt

	go std.StatsLogger(&stats, config.StatsLog, config.StatsPeriod)

	lis, err := listen(&config, block)
	if err != nil {
		return errors.Wrap(err, "listen()")
	}
	defer lis.Close()

	for {
		conn, err := lis.AcceptKCP()
		if err != nil {
			return errors.Wrap(err, "AcceptKCP()")
		}
		conn.SetStreamMode(true)
		conn.SetWriteDelay(false)
		conn.SetWindowSize(config.SndWnd, config.RcvWnd)
		conn.SetMtu(config.MTU)
		if err := conn.SetReadBuffer(config.SockBuf); err != nil {
			log.Println("SetReadBuffer:", err)
		}
		if err := conn.SetWriteBuffer(config.SockBuf); err != nil {
			log.Println("SetWriteBuffer:", err)
		}
		go handleConn(conn, &config)
	}
}

func handleConn(conn *kcp.UDPSession, config *Config) {
	defer conn.Close()

	smuxConfig, err := std.BuildSmuxConfig(std.SmuxConfigParams{
		Version:          config.SmuxVer,
		MaxReceiveBuffer: config.SmuxBuf,
		MaxStreamBuffer:  config.StreamBuf,
		MaxFrameSize:     8192,
		KeepAliveSeconds: config.KeepAlive,
	})
	if err != nil {
		log.Printf("%+v", err)
		return
	}

	var session *smux.Session
	if config.NoComp {
		session, err = smux.Server(conn, smuxConfig)
	} else {
		session, err = smux.Server(std.NewCompStream(conn), smuxConfig)
	}
	if err != nil {
		log.Printf("%+v", err)
		return
	}
	defer session.Close()

	stream, err := session.AcceptStream()
	if err != nil {
		if !config.Quiet {
			log.Println("AcceptStream:", err)
		}
		return
	}
	defer stream.Close()

	var out io.Writer = os.Stdout
	if config.Output != "" {
		f, err := os.OpenFile(config.Output, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0666)
		if err != nil {
			log.Printf("%+v", err)
			return
		}
		defer f.Close()
		out = f
	}

	var wire io.Reader = stream
	if config.QPP {
		pad := qpp.NewQPP([]byte(config.Key), uint16(config.QPPCount))
		wire = std.NewQPPPort(stream, pad, []byte(config.Key))
	}

	if err := receiveAll(out, wire, config); err != nil && err != io.EOF {
		if !config.Quiet {
			log.Println("receiveAll:", err)
		}
	}
}

// receiveAll reads frames from r until it closes, writing every
// FrameOriginal payload to w in arrival order and counting the interleaved
// FrameRecovery symbols without decoding them.
func receiveAll(w io.Writer, r io.Reader, config *Config) error {
	var windowID uint32 = ^uint32(0)
	var originalsInWindow, recoveryInWindow int
	for {
		f, err := std.ReadFrame(r)
		if err != nil {
			return err
		}

		if f.WindowID != windowID {
			if !config.Quiet && windowID != ^uint32(0) {
				log.Printf("window %d: %d originals, %d recovery symbols", windowID, originalsInWindow, recoveryInWindow)
			}
			windowID = f.WindowID
			originalsInWindow, recoveryInWindow = 0, 0
		}

		switch f.Kind {
		case std.FrameOriginal:
			if _, err := w.Write(f.Payload); err != nil {
				return errors.Wrap(err, "writing reassembled output")
			}
			atomic.AddUint64(&stats.OriginalsRecv, 1)
			atomic.AddUint64(&stats.BytesRecv, uint64(len(f.Payload)))
			originalsInWindow++
		case std.FrameRecovery:
			atomic.AddUint64(&stats.RecoveryRecv, 1)
			recoveryInWindow++
		}
	}
}
