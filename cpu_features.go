package gups

import (
	"fmt"
	"runtime"
	"strings"
	"unsafe"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"
	xcpu "golang.org/x/sys/cpu"
)

// SystemInfo describes the host a run was measured on
type SystemInfo struct {
	CPUModel      string   `json:"cpu_model,omitempty"`
	CPUMhz        float64  `json:"cpu_mhz,omitempty"`
	LogicalCPUs   int      `json:"logical_cpus"`
	GOMAXPROCS    int      `json:"gomaxprocs"`
	TotalMemory   uint64   `json:"total_memory,omitempty"`
	AvailMemory   uint64   `json:"available_memory,omitempty"`
	CacheLineSize int      `json:"cache_line_size"`
	Features      []string `json:"features,omitempty"`
	GoVersion     string   `json:"go_version"`
	GOARCH        string   `json:"goarch"`
}

// DetectSystem gathers host information. Fields the host cannot report are
// left zero.
func DetectSystem() SystemInfo {
	info := SystemInfo{
		LogicalCPUs:   runtime.NumCPU(),
		GOMAXPROCS:    runtime.GOMAXPROCS(0),
		CacheLineSize: int(unsafe.Sizeof(xcpu.CacheLinePad{})),
		Features:      cpuFeatures(),
		GoVersion:     runtime.Version(),
		GOARCH:        runtime.GOARCH,
	}

	if stats, err := cpu.Info(); err == nil && len(stats) > 0 {
		info.CPUModel = strings.TrimSpace(stats[0].ModelName)
		info.CPUMhz = stats[0].Mhz
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		info.TotalMemory = vm.Total
		info.AvailMemory = vm.Available
	}
	return info
}

// cpuFeatures lists the instruction set extensions relevant to the update
// kernel and table initialization.
func cpuFeatures() []string {
	features := []string{}

	switch runtime.GOARCH {
	case "amd64", "386":
		if xcpu.X86.HasSSE42 {
			features = append(features, "SSE4.2")
		}
		if xcpu.X86.HasAVX2 {
			features = append(features, "AVX2")
		}
		if xcpu.X86.HasAVX512F {
			features = append(features, "AVX512F")
		}
		if xcpu.X86.HasBMI2 {
			features = append(features, "BMI2")
		}
		if xcpu.X86.HasPOPCNT {
			features = append(features, "POPCNT")
		}
	case "arm64":
		if xcpu.ARM64.HasASIMD {
			features = append(features, "ASIMD")
		}
		if xcpu.ARM64.HasSVE {
			features = append(features, "SVE")
		}
		if xcpu.ARM64.HasATOMICS {
			features = append(features, "LSE")
		}
	}
	return features
}

// String returns a one-line description of the host
func (s SystemInfo) String() string {
	parts := []string{}
	if s.CPUModel != "" {
		parts = append(parts, s.CPUModel)
	}
	parts = append(parts, s.GOARCH,
		fmt.Sprintf("%d CPUs", s.LogicalCPUs),
		fmt.Sprintf("GOMAXPROCS=%d", s.GOMAXPROCS))
	if s.TotalMemory > 0 {
		parts = append(parts, fmt.Sprintf("%.1f GiB RAM", float64(s.TotalMemory)/(1<<30)))
	}
	if len(s.Features) > 0 {
		parts = append(parts, strings.Join(s.Features, "/"))
	}
	return strings.Join(parts, ", ")
}
