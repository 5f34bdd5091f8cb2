// Package logger emits one JSON object per line on stdout.
package logger

import (
	"encoding/json"
	"log"
	"os"
	"time"
)

// Init routes the standard logger to stdout with no prefix so every line is
// a bare JSON object.
func Init() {
	log.SetOutput(os.Stdout)
	log.SetFlags(0)
}

func emit(level, msg string, fields map[string]any) {
	record := map[string]any{
		"time":  time.Now().UTC().Format(time.RFC3339Nano),
		"level": level,
		"msg":   msg,
	}
	for k, v := range fields {
		if _, reserved := record[k]; !reserved {
			record[k] = v
		}
	}
	line, err := json.Marshal(record)
	if err != nil {
		log.Printf(`{"level":"ERROR","msg":"logger: marshal failed","error":%q}`, err.Error())
		return
	}
	log.Print(string(line))
}

// Info logs at INFO level.
func Info(msg string, fields map[string]any) {
	emit("INFO", msg, fields)
}

// Warn logs at WARN level.
func Warn(msg string, fields map[string]any) {
	emit("WARN", msg, fields)
}

// Error logs at ERROR level.
func Error(msg string, fields map[string]any) {
	emit("ERROR", msg, fields)
}

// Fatal logs at FATAL level and exits.
func Fatal(msg string, fields map[string]any) {
	emit("FATAL", msg, fields)
	os.Exit(1)
}
