package version

// Build information set by ldflags
var (
	Version = "dev"     // -X github.com/fossmodmanager/fmm/internal/version.Version={{.Version}}
	Commit  = "unknown" // -X github.com/fossmodmanager/fmm/internal/version.Commit={{.Commit}}
	Date    = "unknown" // -X github.com/fossmodmanager/fmm/internal/version.Date={{.Date}}
)
