package main

import "workoverbot/internal/app"

func main() {
	app.Main()
}
