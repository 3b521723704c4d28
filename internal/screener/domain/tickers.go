// Package domain 包含批量筛选器的领域模型：标的清单、超卖信号与结果分类。
package domain

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// LoadTickerFile 读取标的清单文件：每行一个或多个以制表符/空白分隔的
// 代码，跳过空行与 # 注释行，去重并保持首次出现顺序。
func LoadTickerFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open ticker file: %w", err)
	}
	defer f.Close()

	seen := make(map[string]struct{})
	var tickers []string

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		for _, field := range strings.Fields(line) {
			symbol := strings.ToUpper(field)
			if _, ok := seen[symbol]; ok {
				continue
			}
			seen[symbol] = struct{}{}
			tickers = append(tickers, symbol)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read ticker file: %w", err)
	}
	if len(tickers) == 0 {
		return nil, fmt.Errorf("ticker file %s contains no symbols", path)
	}
	return tickers, nil
}
