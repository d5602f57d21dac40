package entity

type TargetKind string

const (
	TargetKindPage          TargetKind = "Page"
	TargetKindElementHandle TargetKind = "ElementHandle"
)

func (k TargetKind) String() string {
	return string(k)
}

func (k TargetKind) Known() bool {
	switch k {
	case TargetKindPage, TargetKindElementHandle:
		return true
	}
	return false
}
