// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package gen

import (
	"github.com/consensys/go-covered/pkg/hdl/ast"
)

// MemoryIndex computes the linear address of the element accessed by a given
// select of a memory.  The offset of the element within each unpacked
// dimension (relative to that dimension's lower bound) is folded outermost
// first, multiplying by the size of each subsequent dimension.  Thus, for
// "reg [7:0] m [0:3][0:7]", the access m[2][5] has address 2*8+5 = 21.  This
// fails if the expression does not select an element of a memory.
func MemoryIndex(e *ast.Expr, p *Printer) (Size, bool) {
	var (
		sels  = selects(e)
		sig   = sels[0].Signal
		index = ConstSize(0)
	)
	//
	if sig == nil || !sig.IsMemory() || len(sels) < len(sig.Unpacked) {
		return index, false
	}
	//
	for d, dim := range sig.Unpacked {
		if sels[d].Dim != d {
			return index, false
		}
		//
		offset := startOf(sels[d], dim, p).Sub(LowerBound(dim))
		index = index.Mul(DimSize(dim)).Add(offset)
	}
	//
	return index, true
}

// IsMemoryAccess checks whether a given expression selects an element of a
// memory.
func IsMemoryAccess(e *ast.Expr) bool {
	if e.Op.Category() != ast.SELECT {
		return false
	}
	//
	sels := selects(e)
	sig := sels[0].Signal
	//
	return sig != nil && sig.IsMemory() && len(sels) >= len(sig.Unpacked)
}

// startOf determines the first element of a dimension accessed by a select.
// Fixed part selects start from whichever bound is smaller, which depends on
// whether the dimension is big endian.  When this is not known before
// elaboration, the smaller bound is chosen then.
func startOf(sel *ast.Expr, dim ast.Dim, p *Printer) Size {
	switch sel.Op {
	case ast.MBIT:
		if !dim.IsConst() {
			return MinSize(sizeOf(sel.Left, p), sizeOf(sel.Right, p))
		} else if dim.IsBigEndian() {
			return sizeOf(sel.Left, p)
		}
		//
		return sizeOf(sel.Right, p)
	case ast.MBIT_NEG:
		return sizeOf(sel.Left, p).Sub(sizeOf(sel.Right, p)).Add(ConstSize(1))
	default:
		// single element or positive part select
		return sizeOf(sel.Left, p)
	}
}

// sizeOf interprets an expression as a size, which is constant provided the
// expression is.
func sizeOf(e *ast.Expr, p *Printer) Size {
	if v, ok := constValue(e); ok {
		return ConstSize(v)
	} else if e.IsLeaf() || e.Has(ast.Hoisted) {
		return ExprSize(p.Print(e))
	}
	//
	return ExprSize("(" + p.Print(e) + ")")
}
