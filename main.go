package main

import "github.com/Taichi-iskw/yt-harvest/cmd"

func main() {
	cmd.Execute()
}
