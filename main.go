package main

import "swipeengine/internal/app"

func main() {
	app.Main()
}
