package main

import (
	"bookmark-server/internal"
)

func main() {
	internal.Init()
}
