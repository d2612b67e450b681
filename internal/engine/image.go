package engine

import (
	"debug/pe"
	"errors"
	"io/fs"
)

// comDescriptorEntry is IMAGE_DIRECTORY_ENTRY_COM_DESCRIPTOR, the data
// directory that holds the CLR header of a managed image.
const comDescriptorEntry = 14

// ProbeImage reports whether source is a managed PE image the engine can
// load. A missing file is a KindMissingDependency failure naming source
// itself, an unreadable one KindDependencyLoad, and native or non-PE files
// KindUnsupportedImage.
func ProbeImage(source string) error {
	f, err := pe.Open(source)
	if err != nil {
		switch {
		case errors.Is(err, fs.ErrNotExist):
			return &Failure{Kind: KindMissingDependency, Source: source, Name: source, Message: "file not found", Underlying: err}
		case errors.Is(err, fs.ErrPermission):
			return &Failure{Kind: KindDependencyLoad, Source: source, Name: source, Message: "file not readable", Underlying: err}
		}
		return &Failure{Kind: KindUnsupportedImage, Source: source, Message: "not a PE image", Underlying: err}
	}
	defer f.Close()

	if !hasCLRHeader(f) {
		return NewFailure(KindUnsupportedImage, source, "", "native image without CLR header")
	}
	return nil
}

func hasCLRHeader(f *pe.File) bool {
	switch oh := f.OptionalHeader.(type) {
	case *pe.OptionalHeader32:
		return oh.NumberOfRvaAndSizes > comDescriptorEntry && oh.DataDirectory[comDescriptorEntry].VirtualAddress != 0
	case *pe.OptionalHeader64:
		return oh.NumberOfRvaAndSizes > comDescriptorEntry && oh.DataDirectory[comDescriptorEntry].VirtualAddress != 0
	default:
		return false
	}
}
