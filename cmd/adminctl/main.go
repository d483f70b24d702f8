// Точка входа служебного CLI book2resell.
package main

import "github.com/book2resell/server/internal/adminctl"

func main() {
	adminctl.Execute()
}
