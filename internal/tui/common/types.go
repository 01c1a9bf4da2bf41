package common

type Mode int

const (
	Normal Mode = iota
	Jump
)

// ModelReader defines the interface that views use to read model state
type ModelReader interface {
	Mode() Mode
	ShowHelp() bool
	Width() int
	Header() string
	Picture() string
	Strip() string
	Status() string
	JumpList() string
	KeyHelp() string
}
