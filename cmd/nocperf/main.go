// Command nocperf estimates the latency and energy of CNNs on many-core
// NoC accelerators.
package main

func main() {
	Execute()
}
