package logging

var NewSessionLogger = newSessionLogger
