// Command mailexport exports the retreehawaii templates and maillog tables
// to JSON files.
//
// Run without arguments it performs both exports and prints a summary.
// See "mailexport --help" for the subcommands.
package main

func main() {
	Execute()
}
