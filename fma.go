// Copyright (C) 2023 Sneller, Inc.
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package llmath

import (
	"runtime"

	"golang.org/x/sys/cpu"
)

// useFMA selects how double-double products recover
// their rounding error: with math.FMA, or with a Dekker
// split. Either way the error term is good to ~106 bits.
// The software math.FMA is far slower than a split, so
// it is only used when the CPU has the instruction.
var useFMA = fmaFromCPUFeatures()

func fmaFromCPUFeatures() bool {
	switch runtime.GOARCH {
	case "amd64", "386":
		return cpu.X86.HasFMA
	case "arm64", "ppc64", "ppc64le", "s390x", "riscv64":
		// fused multiply-add is part of the base ISA
		return true
	}
	return false
}

// HasFMA reports whether double-double arithmetic in
// this package uses hardware fused multiply-add.
func HasFMA() bool { return useFMA }
