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

// Command send streams a file (or stdin) to a recv peer over an
// smux-multiplexed, optionally encrypted and compressed kcp tunnel, carving
// it into fixed-size windows and appending on-demand lanefec recovery
// symbols after each window's original blocks.
package main

import (
	"crypto/sha1"
	"io"
	"log"
	"os"
	"sync/atomic"
	"time"

	"golang.org/x/crypto/pbkdf2"

	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/urfave/cli"
	"github.com/xtaci/lanefec"
	"github.com/xtaci/lanefec/std"
	"github.com/xtaci/qpp"
	"github.com/xtaci/smux"
)

// SALT is used as the PBKDF2 salt while deriving the shared session key.
const SALT = "kcp-go"

// VERSION is populated via build flags when packaging official binaries.
var VERSION = "SELFBUILD"

var stats std.FecStats

func main() {
	if VERSION == "SELFBUILD" {
		log.SetFlags(log.LstdFlags | log.Lshortfile)
	}

	myApp := cli.NewApp()
	myApp.Name = "send"
	myApp.Usage = "fec-protected file sender (with SMUX)"
	myApp.Version = VERSION
	myApp.Flags = []cli.Flag{
		cli.StringFlag{Name: "remoteaddr, r", Value: "127.0.0.1:29900", Usage: "recv address"},
		cli.StringFlag{Name: "key", Value: "it's a secrect", EnvVar: "LANEFEC_KEY", Usage: "pre-shared secret between send and recv"},
		cli.StringFlag{Name: "crypt", Value: "aes", Usage: "aes, aes-128, aes-128-gcm, aes-192, salsa20, blowfish, twofish, cast5, 3des, tea, xtea, xor, sm4, none, null"},
		cli.StringFlag{Name: "mode", Value: "fast", Usage: "profiles: fast3, fast2, fast, normal, manual"},
		cli.IntFlag{Name: "mtu", Value: 1350, Usage: "maximum transmission unit for UDP packets"},
		cli.IntFlag{Name: "sndwnd", Value: 128, Usage: "send window size(num of packets)"},
		cli.IntFlag{Name: "rcvwnd", Value: 512, Usage: "receive window size(num of packets)"},
		cli.IntFlag{Name: "dscp", Value: 0, Usage: "set DSCP(6bit)"},
		cli.BoolFlag{Name: "nocomp", Usage: "disable compression"},
		cli.BoolFlag{Name: "acknodelay", Usage: "flush ack immediately when a packet is received", Hidden: true},
		cli.IntFlag{Name: "nodelay", Value: 0, Hidden: true},
		cli.IntFlag{Name: "interval", Value: 50, Hidden: true},
		cli.IntFlag{Name: "resend", Value: 0, Hidden: true},
		cli.IntFlag{Name: "nc", Value: 0, Hidden: true},
		cli.IntFlag{Name: "sockbuf", Value: 4194304, Usage: "per-socket buffer in bytes"},
		cli.IntFlag{Name: "smuxver", Value: 2, Usage: "specify smux version, available 1,2"},
		cli.IntFlag{Name: "smuxbuf", Value: 4194304, Usage: "the overall de-mux buffer in bytes"},
		cli.IntFlag{Name: "streambuf", Value: 2097152, Usage: "per stream receive buffer in bytes, smux v2+"},
		cli.IntFlag{Name: "keepalive", Value: 10, Usage: "seconds between heartbeats"},
		cli.IntFlag{Name: "closewait", Value: 0, Usage: "seconds to wait before tearing down the tunnel after EOF"},
		cli.IntFlag{Name: "windowcolumns", Value: 16, Usage: "number of source blocks per fec window (N)"},
		cli.IntFlag{Name: "blockbytes", Value: 1400, Usage: "bytes per source block (S)"},
		cli.IntFlag{Name: "recoverysymbols", Value: 4, Usage: "extra recovery symbols transmitted per window"},
		cli.StringFlag{Name: "input, i", Value: "", Usage: "file to send, defaults to stdin"},
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
		RemoteAddr:      c.String("remoteaddr"),
		Key:             c.String("key"),
		Crypt:           c.String("crypt"),
		Mode:            c.String("mode"),
		MTU:             c.Int("mtu"),
		SndWnd:          c.Int("sndwnd"),
		RcvWnd:          c.Int("rcvwnd"),
		DSCP:            c.Int("dscp"),
		NoComp:          c.Bool("nocomp"),
		AckNodelay:      c.Bool("acknodelay"),
		NoDelay:         c.Int("nodelay"),
		Interval:        c.Int("interval"),
		Resend:          c.Int("resend"),
		NoCongestion:    c.Int("nc"),
		SockBuf:         c.Int("sockbuf"),
		SmuxBuf:         c.Int("smuxbuf"),
		StreamBuf:       c.Int("streambuf"),
		SmuxVer:         c.Int("smuxver"),
		KeepAlive:       c.Int("keepalive"),
		CloseWait:       c.Int("closewait"),
		WindowColumns:   c.Int("windowcolumns"),
		BlockBytes:      c.Int("blockbytes"),
		RecoverySymbols: c.Int("recoverysymbols"),
		Input:           c.String("input"),
		StatsLog:        c.String("statslog"),
		StatsPeriod:     c.Int("statsperiod"),
		Log:             c.String("log"),
		Quiet:           c.Bool("quiet"),
		TCP:             c.Bool("tcp"),
		QPP:             c.Bool("QPP"),
		QPPCount:        c.Int("QPPCount"),
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

	switch config.Mode {
	case "normal":
		config.NoDelay, config.Interval, config.Resend, config.NoCongestion = 0, 40, 2, 1
	case "fast":
		config.NoDelay, config.Interval, config.Resend, config.NoCongestion = 0, 30, 2, 1
	case "fast2":
		config.NoDelay, config.Interval, config.Resend, config.NoCongestion = 1, 20, 2, 1
	case "fast3":
		config.NoDelay, config.Interval, config.Resend, config.NoCongestion = 1, 10, 2, 1
	}

	if config.WindowColumns <= 0 || config.BlockBytes <= 0 {
		return errors.New("windowcolumns and blockbytes must be positive")
	}

	log.Println("version:", VERSION)
	log.Println("remote address:", config.RemoteAddr)
	log.Println("encryption:", config.Crypt)
	log.Println("window columns:", config.WindowColumns, "block bytes:", config.BlockBytes, "recovery symbols:", config.RecoverySymbols)

	pass := pbkdf2.Key([]byte(config.Key), []byte(SALT), 4096, 32, sha1.New)
	block, effectiveCrypt, err := std.SelectBlockCrypt(config.Crypt, pass)
	if err != nil {
		log.Println("crypt fallback:", err)
	}
	config.Crypt = effectiveCrypt

	go std.StatsLogger(&stats, config.StatsLog, config.StatsPeriod)

	kcpconn, err := dial(&config, block)
	if err != nil {
		return errors.Wrap(err, "dial()")
	}
	kcpconn.SetStreamMode(true)
	kcpconn.SetWriteDelay(false)
	kcpconn.SetNoDelay(config.NoDelay, config.Interval, config.Resend, config.NoCongestion)
	kcpconn.SetWindowSize(config.SndWnd, config.RcvWnd)
	kcpconn.SetMtu(config.MTU)
	kcpconn.SetACKNoDelay(config.AckNodelay)
	if err := kcpconn.SetDSCP(config.DSCP); err != nil {
		log.Println("SetDSCP:", err)
	}
	if err := kcpconn.SetReadBuffer(config.SockBuf); err != nil {
		log.Println("SetReadBuffer:", err)
	}
	if err := kcpconn.SetWriteBuffer(config.SockBuf); err != nil {
		log.Println("SetWriteBuffer:", err)
	}

	smuxConfig, err := std.BuildSmuxConfig(std.SmuxConfigParams{
		Version:          config.SmuxVer,
		MaxReceiveBuffer: config.SmuxBuf,
		MaxStreamBuffer:  config.StreamBuf,
		MaxFrameSize:     8192,
		KeepAliveSeconds: config.KeepAlive,
	})
	if err != nil {
		return errors.Wrap(err, "BuildSmuxConfig()")
	}

	var session *smux.Session
	if config.NoComp {
		session, err = smux.Client(kcpconn, smuxConfig)
	} else {
		session, err = smux.Client(std.NewCompStream(kcpconn), smuxConfig)
	}
	if err != nil {
		return errors.Wrap(err, "smux.Client()")
	}
	defer session.Close()

	stream, err := session.OpenStream()
	if err != nil {
		return errors.Wrap(err, "OpenStream()")
	}
	defer stream.Close()

	var wire io.Writer = stream
	if config.QPP {
		warnings, err := std.ValidateQPPParams(config.QPPCount, config.Key)
		if err != nil {
			return errors.Wrap(err, "ValidateQPPParams()")
		}
		for _, msg := range warnings {
			color.Red(msg)
		}
		pad := qpp.NewQPP([]byte(config.Key), uint16(config.QPPCount))
		wire = std.NewQPPPort(stream, pad, []byte(config.Key))
	}

	var input io.Reader = os.Stdin
	if config.Input != "" {
		f, err := os.Open(config.Input)
		if err != nil {
			return errors.Wrap(err, "opening input")
		}
		defer f.Close()
		input = f
	}

	if err := sendAll(wire, input, &config); err != nil {
		return errors.Wrap(err, "sendAll()")
	}

	if config.CloseWait > 0 {
		time.Sleep(time.Duration(config.CloseWait) * time.Second)
	}
	return nil
}

// sendAll reads r in windowColumns*blockBytes chunks, building an Encoder
// over each window and emitting its originals followed by extra recovery
// symbols as fec-protected frames on w.
func sendAll(w io.Writer, r io.Reader, config *Config) error {
	windowBytes := config.WindowColumns * config.BlockBytes
	buf := make([]byte, windowBytes)

	var windowID uint32
	for {
		n, rerr := io.ReadFull(r, buf)
		if n == 0 {
			if rerr == io.EOF {
				return nil
			}
			return rerr
		}

		// A full window has WindowColumns columns; a short final window
		// gets just enough BlockBytes-sized columns to hold its n bytes.
		columns := (n + config.BlockBytes - 1) / config.BlockBytes
		originals := splitColumns(buf[:n], columns)
		totalBytes := uint64(n)

		enc, err := lanefec.NewEncoder(originals, totalBytes)
		if err != nil {
			return errors.Wrap(err, "NewEncoder()")
		}

		for i, col := range originals {
			if err := std.WriteFrame(w, std.Frame{Kind: std.FrameOriginal, WindowID: windowID, Index: uint32(i), Payload: col}); err != nil {
				return err
			}
			atomic.AddUint64(&stats.OriginalsSent, 1)
			atomic.AddUint64(&stats.BytesSent, uint64(len(col)))
		}

		for row := uint32(0); row < uint32(config.RecoverySymbols); row++ {
			sym, err := enc.Encode(row)
			if err != nil {
				return errors.Wrap(err, "Encode()")
			}
			if err := std.WriteFrame(w, std.Frame{Kind: std.FrameRecovery, WindowID: windowID, Index: row, Payload: sym.Data}); err != nil {
				return err
			}
			atomic.AddUint64(&stats.RecoverySent, 1)
			atomic.AddUint64(&stats.BytesSent, uint64(len(sym.Data)))
		}
		atomic.AddUint64(&stats.WindowsEncoded, 1)

		if !config.Quiet {
			log.Printf("window %d: %d originals, %d recovery symbols, %d bytes", windowID, len(originals), config.RecoverySymbols, n)
		}

		windowID++
		if rerr == io.ErrUnexpectedEOF || rerr == io.EOF {
			return nil
		}
		if rerr != nil {
			return rerr
		}
	}
}

// splitColumns divides data into n columns using the same S=ceil(len/n),
// F=len-(n-1)*S split that lanefec's own window uses internally, so the
// slices hand to NewEncoder line up exactly with what it expects.
func splitColumns(data []byte, n int) [][]byte {
	if n <= 0 {
		n = 1
	}
	s := (len(data) + n - 1) / n
	cols := make([][]byte, n)
	for i := 0; i < n-1; i++ {
		cols[i] = data[i*s : i*s+s]
	}
	cols[n-1] = data[(n-1)*s:]
	return cols
}
