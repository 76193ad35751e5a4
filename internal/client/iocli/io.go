package iocli

//go:generate moq -out io_mock.go . IO

// IO ввод-вывод CLI: stdout для результатов, stderr для сообщений
type IO interface {
	Println(a ...any)
	Printf(format string, a ...any)
	Errorf(format string, a ...any)
	ReadInput(prompt string) (string, error)
	Write(p []byte) (n int, err error)
	// IsTerminal сообщает, выводится ли stdout в терминал
	IsTerminal() bool
	// Width ширина терминала в колонках; 0 если неизвестна
	Width() int
}
