// board/board.go
package board

// Size 是一张宾果棋盘的格子数 (5x5，按行展开)
const Size = 25

// Lines 列出棋盘上全部12条获胜线的格子索引：5行、5列、2条对角线
var Lines = [12][5]int{
	{0, 1, 2, 3, 4},
	{5, 6, 7, 8, 9},
	{10, 11, 12, 13, 14},
	{15, 16, 17, 18, 19},
	{20, 21, 22, 23, 24},
	{0, 5, 10, 15, 20},
	{1, 6, 11, 16, 21},
	{2, 7, 12, 17, 22},
	{3, 8, 13, 18, 23},
	{4, 9, 14, 19, 24},
	{0, 6, 12, 18, 24},
	{4, 8, 12, 16, 20},
}

// HasCompletedLine reports whether any of the 12 lines is fully marked.
func HasCompletedLine(marked [Size]bool) bool {
	for _, line := range Lines {
		complete := true
		for _, idx := range line {
			if !marked[idx] {
				complete = false
				break
			}
		}
		if complete {
			return true
		}
	}
	return false
}

// IndexOf 返回 number 在棋盘上第一次出现的格子索引，不存在则返回 -1
func IndexOf(cells []int, number int) int {
	for i, n := range cells {
		if n == number {
			return i
		}
	}
	return -1
}
