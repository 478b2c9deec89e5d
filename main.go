package main

import "github.com/Loop-Hive/ScheduleX/cmd"

func main() {
	cmd.Execute()
}
