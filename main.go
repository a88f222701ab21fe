package main

import "github.com/shouni/go-link-scraper/cmd"

func main() {
	cmd.Execute()
}
