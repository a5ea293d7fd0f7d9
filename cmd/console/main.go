// console attaches a host terminal to a node's UART shell over a serial
// adapter. Keystrokes go out unbuffered; replies stream back to stdout.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/tarm/serial"
)

func main() {
	dev := flag.String("dev", "/dev/ttyACM0", "serial device")
	baud := flag.Int("baud", 115200, "baud rate")
	flag.Parse()

	port, err := serial.OpenPort(&serial.Config{
		Name:        *dev,
		Baud:        *baud,
		ReadTimeout: time.Second,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "unable to open port:", err)
		os.Exit(1)
	}
	defer port.Close()

	fmt.Fprintf(os.Stderr, "connected to %s at %d baud\n", *dev, *baud)

	go func() {
		if _, err := io.Copy(port, os.Stdin); err != nil {
			fmt.Fprintln(os.Stderr, "stdin closed:", err)
		}
		port.Close()
	}()

	buf := make([]byte, 256)
	for {
		n, err := port.Read(buf)
		if n > 0 {
			os.Stdout.Write(buf[:n])
		}
		if err != nil && err != io.EOF {
			return
		}
	}
}
