// Package renderer 定义导出器接口：把排好版的公告输出为逐页图片或标记。
package renderer

import (
	"context"
	"fmt"

	"github.com/ByLCY/oshirase/announce"
)

// Image 是一页导出结果。
type Image struct {
	Name        string `json:"name"`
	ContentType string `json:"contentType"`
	Data        []byte `json:"-"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
}

// Renderer 将排版结果输出为最终文件，结果顺序与页序一致。
type Renderer interface {
	Render(ctx context.Context, sheet *announce.Sheet) ([]Image, error)
}

// Page 返回第 index 页（从 0 开始），越界时返回 false。
func Page(images []Image, index int) (Image, bool) {
	if index < 0 || index >= len(images) {
		return Image{}, false
	}
	return images[index], true
}

// PageRenderer 可以只输出单页，避免为取一页而绘制整份公告。
type PageRenderer interface {
	RenderPage(ctx context.Context, sheet *announce.Sheet, index int) (Image, error)
}

// RenderPage 输出第 index 页（从 0 开始）。r 实现 PageRenderer 时只绘制该页，
// 否则退回到 Render 全部页面后取出一页。
func RenderPage(ctx context.Context, r Renderer, sheet *announce.Sheet, index int) (Image, error) {
	if pr, ok := r.(PageRenderer); ok {
		return pr.RenderPage(ctx, sheet, index)
	}
	images, err := r.Render(ctx, sheet)
	if err != nil {
		return Image{}, err
	}
	img, ok := Page(images, index)
	if !ok {
		return Image{}, fmt.Errorf("第 %d 页不存在，共 %d 页", index+1, len(images))
	}
	return img, nil
}
