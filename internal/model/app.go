package model

const (
	AppServiceName = "equipment_exporter"
	NamespaceName  = "catourne"
)

var versions = []string{
	"1.2",
	"1.1",
	"1.0",
}

var (
	CurrentVersion = versions[0]
)
