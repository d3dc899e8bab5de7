// SPDX-License-Identifier: EPL-2.0

package utils

// Float32ToInt16 clamps x to [-1, 1] and scales it to signed 16-bit PCM.
func Float32ToInt16(x float32) int16 {
	if x > 1 {
		x = 1
	} else if x < -1 {
		x = -1
	}

	// 32767 for the positive peak avoids overflow
	return int16(x * 32767.0)
}

// Float32ToInt16Slice converts src into dst, which must be at least as long.
func Float32ToInt16Slice(dst []int16, src []float32) {
	for i, x := range src {
		dst[i] = Float32ToInt16(x)
	}
}
