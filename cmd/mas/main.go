// Command mas is the multi-agent system CLI.
package main

func main() {
	Execute()
}
