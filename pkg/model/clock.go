package model

import "time"

var processStart = time.Now()
