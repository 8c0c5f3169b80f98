package logger

import (
	"io"
	"log"
	"os"

	"github.com/lordralex/ballot/api/env"
)

var errorLogger *log.Logger
var outLogger *log.Logger
var debugLogger *log.Logger
var logFile *os.File

func init() {
	var err error
	logFile, err = os.OpenFile(env.GetOr("log.file", "output.log"), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)

	if err != nil {
		log.Printf("Error loading log file: %s", err.Error())
		logFile = nil
	}

	var output io.Writer = os.Stdout
	var errorOut io.Writer = os.Stderr
	var debugOut = io.Discard
	if env.GetBool("debug") {
		debugOut = os.Stdout
	}
	if logFile != nil {
		output = io.MultiWriter(output, logFile)
		errorOut = io.MultiWriter(errorOut, logFile)
		if debugOut != io.Discard {
			debugOut = io.MultiWriter(debugOut, logFile)
		}
	}

	errorLogger = log.New(errorOut, "[ERROR] ", log.Flags())
	outLogger = log.New(output, "[INFO] ", log.Flags())
	debugLogger = log.New(debugOut, "[DEBUG] ", log.Flags())
}

func Close() error {
	if logFile == nil {
		return nil
	}
	return logFile.Close()
}

func Out() *log.Logger {
	return outLogger
}

func Err() *log.Logger {
	return errorLogger
}

func Debug() *log.Logger {
	return debugLogger
}
