package probe

import (
	"context"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/spf13/afero"
	"github.com/webitel/im-room-client/internal/domain/model"
)

var cardName = regexp.MustCompile(`^card[0-9]+$`)

// pciVendors maps PCI vendor ids found in sysfs to display names.
var pciVendors = map[string]string{
	"0x8086": "Intel",
	"0x10de": "NVIDIA Corporation",
	"0x1002": "AMD",
	"0x1022": "AMD",
	"0x13b5": "ARM",
	"0x5143": "Qualcomm",
	"0x15ad": "VMware",
	"0x1af4": "Red Hat (virtio)",
	"0x1234": "QEMU",
	"0x1414": "Microsoft",
}

// GPU reports the first DRM card: vendor from the PCI id, renderer from the kernel driver.
func (h *Host) GPU(_ context.Context) model.Optional[model.GPUInfo] {
	entries, err := afero.ReadDir(h.fs, h.path("sys", "class", "drm"))
	if err != nil {
		return model.None[model.GPUInfo]()
	}

	cards := make([]string, 0, len(entries))
	for _, e := range entries {
		if cardName.MatchString(e.Name()) {
			cards = append(cards, e.Name())
		}
	}
	sort.Strings(cards)

	for _, card := range cards {
		if info, ok := h.readCard(h.path("sys", "class", "drm", card, "device")); ok {
			return model.Some(info)
		}
	}
	return model.None[model.GPUInfo]()
}

func (h *Host) readCard(dir string) (model.GPUInfo, bool) {
	vendorID, ok := h.readString(filepath.Join(dir, "vendor"))
	if !ok {
		return model.GPUInfo{}, false
	}
	vendorID = strings.ToLower(vendorID)

	info := model.GPUInfo{
		Vendor:   vendorID,
		Renderer: model.SentinelUnknown,
	}
	if name, ok := pciVendors[vendorID]; ok {
		info.Vendor = name
	}

	uevent, ok := h.readRaw(filepath.Join(dir, "uevent"))
	if !ok {
		return info, true
	}

	var driver, pciID string
	for _, line := range strings.Split(uevent, "\n") {
		key, value, found := strings.Cut(strings.TrimSpace(line), "=")
		if !found {
			continue
		}
		switch key {
		case "DRIVER":
			driver = value
		case "PCI_ID":
			pciID = strings.ToLower(value)
		}
	}

	switch {
	case driver != "" && pciID != "":
		info.Renderer = sanitize(driver + " [" + pciID + "]")
	case driver != "":
		info.Renderer = sanitize(driver)
	}
	return info, true
}

// readRaw keeps line structure, unlike readString.
func (h *Host) readRaw(path string) (string, bool) {
	data, err := afero.ReadFile(h.fs, path)
	if err != nil {
		return "", false
	}
	return string(data), true
}
