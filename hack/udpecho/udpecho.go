// Manual end-to-end check for a subnet-mode tunnel: run tunif, then
// this echo server on the far side, then send datagrams to
// 10.0.0.1:8000 and watch them come back.
package main

import (
	"fmt"
	"net"
)

func main() {
	// Create a UDP address to listen on
	addr, err := net.ResolveUDPAddr("udp4", "10.0.0.1:8000")
	if err != nil {
		fmt.Println("Error resolving UDP address:", err)
		return
	}

	// Create a UDP connection to listen for incoming packets
	conn, err := net.ListenUDP("udp4", addr)
	if err != nil {
		fmt.Println("Error listening on UDP:", err)
		return
	}
	defer conn.Close()

	// Create a buffer to store incoming data
	buffer := make([]byte, 1500)

	fmt.Println("UDP echo server is running. Listening on", addr)

	for {
		n, peer, err := conn.ReadFromUDP(buffer)
		if err != nil {
			fmt.Println("Error reading from UDP connection:", err)
			return
		}

		fmt.Printf("Received %d bytes from %s\n", n, peer.String())

		// Echo the payload back to the sender
		_, err = conn.WriteToUDP(buffer[:n], peer)
		if err != nil {
			fmt.Println("Error echoing response:", err)
			return
		}
	}
}
