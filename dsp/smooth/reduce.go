package smooth

import (
	"fmt"

	"github.com/cwbudde/algo-pulse/dsp/core"
)

// Axis selects the matrix dimension ReduceBlocks averages along.
type Axis int

const (
	// AxisRows averages consecutive rows; the column count is preserved.
	AxisRows Axis = 0
	// AxisColumns averages consecutive columns; the row count is preserved.
	AxisColumns Axis = 1
)

// ReduceBlocks partitions matrix along axis into consecutive blocks of
// blockSize rows or columns and replaces each block by its mean. A trailing
// block shorter than blockSize is dropped, so a dimension of
// k*blockSize + r yields k outputs.
func ReduceBlocks(matrix [][]float64, blockSize int, axis Axis) ([][]float64, error) {
	if blockSize <= 0 {
		return nil, fmt.Errorf("smooth: block size must be > 0: %d: %w", blockSize, core.ErrInvalidArgument)
	}
	if axis != AxisRows && axis != AxisColumns {
		return nil, fmt.Errorf("smooth: axis must be 0 or 1: %d: %w", axis, core.ErrInvalidArgument)
	}
	if len(matrix) == 0 || len(matrix[0]) == 0 {
		return nil, fmt.Errorf("smooth: reduce: %w", core.ErrEmptyInput)
	}

	rows, cols := len(matrix), len(matrix[0])
	for i, row := range matrix {
		if len(row) != cols {
			return nil, fmt.Errorf("smooth: row %d has %d columns, want %d: %w", i, len(row), cols, core.ErrShapeMismatch)
		}
	}

	if axis == AxisRows {
		out := make([][]float64, rows/blockSize)
		for k := range out {
			mean := make([]float64, cols)
			for _, row := range matrix[k*blockSize : (k+1)*blockSize] {
				for j, v := range row {
					mean[j] += v
				}
			}
			for j := range mean {
				mean[j] /= float64(blockSize)
			}
			out[k] = mean
		}
		return out, nil
	}

	blocks := cols / blockSize
	out := make([][]float64, rows)
	for i, row := range matrix {
		out[i] = blockMeans(row, blockSize, blocks)
	}
	return out, nil
}

// ReduceVector is ReduceBlocks for a single channel: data is treated as a
// column and the block means are returned as a flat slice.
func ReduceVector(data []float64, blockSize int) ([]float64, error) {
	if blockSize <= 0 {
		return nil, fmt.Errorf("smooth: block size must be > 0: %d: %w", blockSize, core.ErrInvalidArgument)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("smooth: reduce: %w", core.ErrEmptyInput)
	}
	return blockMeans(data, blockSize, len(data)/blockSize), nil
}

func blockMeans(data []float64, blockSize, blocks int) []float64 {
	out := make([]float64, blocks)
	for k := range out {
		sum := 0.0
		for _, v := range data[k*blockSize : (k+1)*blockSize] {
			sum += v
		}
		out[k] = sum / float64(blockSize)
	}
	return out
}
