/*
Copyright © 2025 Liys <liys87x@gmail.com>
*/
package main

import "github.com/telepair/lifesearch/cmd"

func main() {
	cmd.Execute()
}
