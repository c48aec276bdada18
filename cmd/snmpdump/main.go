// Copyright 2024 The SnmpWire Authors. All rights reserved.  Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

// Command snmpdump prints the SNMP messages found in a pcap capture,
// one line per message.
package main

import (
	"encoding/hex"
	"fmt"
	"log"
	"os"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcapgo"
	"github.com/snmpwire/snmpwire"
	"github.com/spf13/cobra"
)

var (
	maxDepth int
	verbose  bool
	hexDump  bool

	version = "dev" // Will be set by build flags
)

var rootCmd = &cobra.Command{
	Use:     "snmpdump [flags] file.pcap",
	Version: version,
	Short:   "Print the SNMP messages in a pcap capture",
	Long: `snmpdump reads a pcap capture file, picks out the UDP packets on the
SNMP ports (161 and 162), and prints one line per message. Payloads that
do not decode are reported with the decoder's error instead.`,
	Example: `  snmpdump capture.pcap

  # trace every decoded field and hex dump the payloads that fail
  snmpdump --verbose --hex capture.pcap`,
	Args: cobra.ExactArgs(1),
	RunE: runDump,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runDump(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	r, err := pcapgo.NewReader(f)
	if err != nil {
		return fmt.Errorf("reading pcap header of %s: %w", args[0], err)
	}

	decoder := snmpwire.Decoder{MaxDepth: maxDepth}
	if verbose {
		decoder.Logger = snmpwire.NewLogger(log.New(os.Stderr, "snmpdump ", 0))
	}

	out := cmd.OutOrStdout()
	var messages, failures int
	frame := 0
	source := gopacket.NewPacketSource(r, r.LinkType())
	for pkt := range source.Packets() {
		frame++
		udpLayer := pkt.Layer(layers.LayerTypeUDP)
		if udpLayer == nil {
			continue
		}
		udp := udpLayer.(*layers.UDP)
		if !snmpPort(udp.SrcPort) && !snmpPort(udp.DstPort) {
			continue
		}
		if len(udp.Payload) == 0 {
			continue
		}
		msg, err := decoder.DecodeGeneric(udp.Payload)
		if err != nil {
			failures++
			fmt.Fprintf(out, "#%d %v\n", frame, err)
			if hexDump {
				fmt.Fprint(out, hex.Dump(udp.Payload))
			}
			continue
		}
		messages++
		fmt.Fprintf(out, "#%d %s\n", frame, summarize(msg))
	}
	fmt.Fprintf(out, "%d messages, %d undecodable payloads\n", messages, failures)
	return nil
}

func snmpPort(p layers.UDPPort) bool {
	return p == 161 || p == 162
}

// summarize renders one decoded message as a single line: version, who
// sent it, the PDU kind, request id, varbind count and the first OID.
func summarize(msg snmpwire.SnmpGenericMessage) string {
	switch m := msg.(type) {
	case *snmpwire.SnmpMessage:
		return fmt.Sprintf("v%s community=%q %s", m.Version, m.Community, pduSummary(m.Pdu))
	case *snmpwire.SnmpV3Message:
		who := securityName(m.SecurityParameters)
		if m.ScopedPdu.Encrypted != nil {
			return fmt.Sprintf("v%s %s flags=%s encrypted scoped PDU (%d bytes)",
				m.Version, who, m.Header.MsgFlags, len(m.ScopedPdu.Encrypted))
		}
		if m.ScopedPdu.Pdu == nil {
			return fmt.Sprintf("v%s %s flags=%s empty scoped PDU", m.Version, who, m.Header.MsgFlags)
		}
		return fmt.Sprintf("v%s %s flags=%s %s",
			m.Version, who, m.Header.MsgFlags, pduSummary(*m.ScopedPdu.Pdu))
	default:
		return fmt.Sprintf("v%s", msg.MessageVersion())
	}
}

func pduSummary(pdu snmpwire.Pdu) string {
	first := "-"
	if len(pdu.VarBinds) > 0 {
		first = pdu.VarBinds[0].Oid.String()
	}
	if pdu.Type == snmpwire.Trap && pdu.Trap != nil {
		return fmt.Sprintf("%s enterprise=%s agent=%s %s varbinds=%d first=%s",
			pdu.Type, pdu.Trap.Enterprise, pdu.Trap.AgentAddr, pdu.Trap.GenericTrap,
			len(pdu.VarBinds), first)
	}
	s := fmt.Sprintf("%s reqid=%d varbinds=%d first=%s", pdu.Type, pdu.RequestID, len(pdu.VarBinds), first)
	if pdu.ErrorStatus != snmpwire.NoError {
		s += fmt.Sprintf(" status=%s@%d", pdu.ErrorStatus, pdu.ErrorIndex)
	}
	return s
}

func securityName(sp snmpwire.SnmpV3SecurityParameters) string {
	if usm, ok := sp.(*snmpwire.UsmSecurityParameters); ok {
		return fmt.Sprintf("user=%q", usm.UserName)
	}
	if sp == nil {
		return "user=?"
	}
	return sp.Description()
}

func init() {
	rootCmd.Flags().IntVar(&maxDepth, "max-depth", 0, "maximum BER nesting depth, 0 for the library default")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "trace every decoded field to stderr")
	rootCmd.Flags().BoolVar(&hexDump, "hex", false, "hex dump payloads that fail to decode")
}
