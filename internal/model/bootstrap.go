package model

import (
	"path/filepath"

	"github.com/zjrosen/gantry/internal/doc"
	"github.com/zjrosen/gantry/internal/log"
)

// InitDirectory writes a starter configuration into dir: a simulated
// machine and empty package and part catalogs. Documents that already
// exist are left untouched, so running it against a populated directory
// is harmless.
func InitDirectory(dir string) error {
	machinePath := filepath.Join(dir, MachineFile)
	if !fileExists(machinePath) {
		holder := machineHolder{Machine: machineNode{Machine: &SimulatedMachine{}}}
		if err := doc.Write(machinePath, holder); err != nil {
			return err
		}
	}

	packagesPath := filepath.Join(dir, PackagesFile)
	if !fileExists(packagesPath) {
		if err := doc.Write(packagesPath, packagesHolder{Packages: []*Package{}}); err != nil {
			return err
		}
	}

	partsPath := filepath.Join(dir, PartsFile)
	if !fileExists(partsPath) {
		if err := doc.Write(partsPath, partsHolder{Parts: []*Part{}}); err != nil {
			return err
		}
	}

	log.Info(log.CatModel, "configuration directory initialized", "dir", dir)
	return nil
}
