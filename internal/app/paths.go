package app

import "path/filepath"

const (
	StaticDirName   = "static"
	UploadsDirName  = "uploads"
	QRDirName       = "qr_codes"
	MappingFileName = "qr_codes.json"
	AuditFileName   = "audit.log"
)

// Paths is the on-disk layout below an application root.
type Paths struct {
	Root        string
	StaticDir   string
	UploadDir   string
	QRDir       string
	MappingPath string
	AuditPath   string
}

func NewPaths(root string) Paths {
	if root == "" {
		root = "."
	}
	static := filepath.Join(root, StaticDirName)
	return Paths{
		Root:        root,
		StaticDir:   static,
		UploadDir:   filepath.Join(static, UploadsDirName),
		QRDir:       filepath.Join(static, QRDirName),
		MappingPath: filepath.Join(root, MappingFileName),
		AuditPath:   filepath.Join(root, AuditFileName),
	}
}

// Ensure creates the upload and QR output directories.
func (p Paths) Ensure() error {
	if err := EnsureDir(p.UploadDir, 0755); err != nil {
		return err
	}
	return EnsureDir(p.QRDir, 0755)
}
