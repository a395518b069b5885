// gatecmd sends one command to the gate controller over its serial
// console and prints the reply. Stands in for the ANPR host script.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"go.bug.st/serial"
)

func main() {
	device := flag.String("device", "", "Serial device (first detected port when empty)")
	baud := flag.Int("baud", 115200, "Baud rate")
	wait := flag.Duration("wait", 2*time.Second, "How long to collect reply output")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: gatecmd [flags] OPEN|CLOSE|STATUS|PING|TEST|HELP")
		os.Exit(2)
	}
	cmd := strings.ToUpper(flag.Arg(0))

	dev := *device
	if dev == "" {
		ports, err := serial.GetPortsList()
		if err != nil {
			log.Fatalf("List ports: %v", err)
		}
		if len(ports) == 0 {
			log.Fatal("No serial ports found")
		}
		dev = ports[0]
		log.Printf("Using %s", dev)
	}

	mode := &serial.Mode{
		BaudRate: *baud,
		Parity:   serial.NoParity,
		DataBits: 8,
		StopBits: serial.OneStopBit,
	}
	port, err := serial.Open(dev, mode)
	if err != nil {
		log.Fatalf("Open %s: %v", dev, err)
	}
	defer port.Close()
	port.SetReadTimeout(200 * time.Millisecond)

	if _, err := fmt.Fprintf(port, "%s\r\n", cmd); err != nil {
		log.Fatalf("Write: %v", err)
	}

	deadline := time.Now().Add(*wait)
	buf := make([]byte, 256)
	for time.Now().Before(deadline) {
		n, err := port.Read(buf)
		if err != nil {
			break
		}
		if n > 0 {
			os.Stdout.Write(buf[:n])
		}
	}
}
