// Package main provides localization for the chromakey CLI.
package main

import (
	"github.com/ideamans/go-l10n"
)

func init() {
	// Register Japanese translations for CLI messages.
	l10n.Register("ja", l10n.LexiconMap{
		// Flag categories
		"Keying":   "キーイング",
		"Decoding": "デコード",
		"Debug":    "デバッグ",
		"Logging":  "ログ",

		// Root command
		"Key out a color from the first frame of an image or video": "画像または動画の最初のフレームから指定色を抜く",
		"chromakey [flags] <input-image-path> <output-raw-path>":    "chromakey [フラグ] <入力画像パス> <出力rawパス>",

		"chromakey decodes the first frame of the input, removes the key color through a buffer, format, chromakey and buffersink filter chain, and writes the raw planes of the result.": "chromakeyは入力の最初のフレームをデコードし、buffer、format、chromakey、buffersinkのフィルタチェーンでキー色を抜き、結果の生プレーンを書き出します。",

		// Version command
		"Show version information":  "バージョン情報を表示",
		"chromakey (Go) version %s": "chromakey (Go版) バージョン %s",

		// Keying flags
		"Pixel format the frame is converted to before keying": "キーイング前に変換するピクセルフォーマット",
		"Key color (name, 0xRRGGBB or #RRGGBB)":                "キー色（色名、0xRRGGBB または #RRGGBB）",
		"Similarity to the key color (0.00001-1)":              "キー色との類似度（0.00001-1）",
		"Blend of the alpha edge (0-1, 0 = hard edge)":         "アルファ境界のブレンド（0-1、0 = 硬い境界）",
		"Interpret the key color as YUV instead of RGB":        "キー色をRGBではなくYUVとして解釈",
		"Time base of the filter graph source":                 "フィルタグラフ入力のタイムベース",

		// Decoding flags
		"Packets to read before giving up on a frame":                   "フレームを諦めるまでに読むパケット数",
		"Path to the ffmpeg executable for H.264, HEVC and AV1 streams": "H.264、HEVC、AV1ストリーム用のffmpeg実行ファイルのパス",
		"Configuration file (YAML or TOML)":                             "設定ファイル（YAML または TOML）",

		// Debug flags
		"Enable debug output":        "デバッグ出力を有効化",
		"Directory for debug output": "デバッグ出力のディレクトリ",

		// Logging flags
		"Log level (debug, info, warn, error)": "ログレベル（debug, info, warn, error）",
		"Suppress all log output":              "全てのログ出力を抑制",

		// Error messages
		"usage: chromakey [flags] <input-image-path> <output-raw-path>": "使い方: chromakey [フラグ] <入力画像パス> <出力rawパス>",

		// Summary output flag
		"Output execution summary to file (Markdown format)": "実行サマリーをファイルに出力（Markdown形式）",
		"Summary saved to %s":                                "サマリーを %s に保存しました",
		"Failed to write summary: %s":                        "サマリーの書き込みに失敗しました: %s",

		// Summary content
		"Keying Summary": "キーイングサマリー",
		"Generated":      "生成日時",
		"Results":        "実行結果",
		"Source":         "入力",
		"Settings":       "設定",
		"Output":         "出力",
		"Planes":         "プレーン",
		"Item":           "項目",
		"Value":          "値",
		"None":           "なし",
		"Yes":            "はい",
		"No":             "いいえ",
		"Generated by":   "生成:",

		// Results and source sections
		"State":          "状態",
		"Failed Stage":   "失敗した段階",
		"Error":          "エラー",
		"Input":          "入力ファイル",
		"Container":      "コンテナ",
		"Codec":          "コーデック",
		"Decoder":        "デコーダー",
		"Packets Read":   "読み込んだパケット数",
		"Frame Size":     "フレームサイズ",
		"Decoded Format": "デコード後のフォーマット",

		// Settings section
		"Pixel Format":       "ピクセルフォーマット",
		"Key Color":          "キー色",
		"Similarity":         "類似度",
		"Blend":              "ブレンド",
		"Color Given As YUV": "YUVで指定した色",

		// Output section
		"Keyed Format":  "キーイング後のフォーマット",
		"Bytes Written": "書き込みバイト数",
		"Plane":         "プレーン",
		"Stride":        "ストライド",
		"Rows":          "行数",
		"Bytes":         "バイト数",
	})
}
