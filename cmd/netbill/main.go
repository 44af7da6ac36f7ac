// NetBill is the subscription billing and renewal engine for the WispTel
// ISP product suite.
package main

func main() {
	Execute()
}
