package logger

import "github.com/ideamans/go-l10n"

func init() {
	l10n.Register("ja", l10n.LexiconMap{
		// Orchestration level messages (info)
		"Keying %s into %s":                        "%s をキーイングして %s に出力します",
		"Decoded %dx%d %s frame from %s (%s)":      "%[4]s (%[5]s) から %[1]dx%[2]d の %[3]s フレームをデコードしました",
		"Keyed frame to %s with color %s":          "色 %[2]s で %[1]s フレームをキーイングしました",
		"Wrote %d bytes to %s":                     "%[2]s に %[1]d バイト書き込みました",
		"Pipeline completed successfully":          "パイプラインが正常に完了しました",
		"Debug output saved to %s":                 "デバッグ出力を %s に保存しました",
		"Interrupted, shutting down...":            "中断されました。シャットダウン中...",
		"Failed to decode input: %s":               "入力のデコードに失敗しました: %s",
		"Failed to open output: %s":                "出力を開けませんでした: %s",
		"Failed to key frame: %s":                  "フレームのキーイングに失敗しました: %s",
		"Failed to write output: %s":               "出力の書き込みに失敗しました: %s",
		"Failed to save debug output: %s":          "デバッグ出力の保存に失敗しました: %s",

		// State machine (debug)
		"State: %s -> %s": "状態: %s -> %s",

		// Load stage
		"Opened %s (%s, %d streams)":              "%s を開きました (%s, %d ストリーム)",
		"Selected stream %d: %s %dx%d":            "ストリーム %d を選択しました: %s %dx%d",
		"Opened decoder %s with output %s":        "デコーダー %s を出力 %s で開きました",
		"Decoded %dx%d %s frame after %d packets": "%[4]d パケットで %[1]dx%[2]d の %[3]s フレームをデコードしました",
		"Packet %d produced no frame, reading on": "パケット %d からフレームが得られません。読み込みを続けます",
		"Failed to release decoder resources: %s": "デコーダーリソースの解放に失敗しました: %s",

		// Key stage (filter component)
		"Added %s stage %q: %s":                  "%s ステージ %q を追加しました: %s",
		"Configured filter graph with %d stages": "%d ステージのフィルターグラフを構成しました",
		"Pulled %dx%d %s frame":                  "%dx%d の %s フレームを取得しました",

		// Raw output stage
		"Wrote plane %d: %d rows of %d bytes": "プレーン %d を書き込みました: %d 行 x %d バイト",
	})
}
