package wlan

// eht is the 802.11be single spatial stream rate table in Mbit/s. The
// 802.11ax table is rows 0-11 of it without the 320 MHz column.
var eht = map[int]Entry{
	0: {Modulation: "BPSK", CodingRate: CodingRate{1, 2}, Rates: map[Bandwidth]map[GuardInterval]float64{
		BW20:  {GI08: 8.6, GI16: 8.1, GI32: 7.3},
		BW40:  {GI08: 17.2, GI16: 16.3, GI32: 14.6},
		BW80:  {GI08: 36.0, GI16: 34.0, GI32: 30.6},
		BW160: {GI08: 72.1, GI16: 68.1, GI32: 61.3},
		BW320: {GI08: 144.1, GI16: 136.1, GI32: 122.5},
	}},
	1: {Modulation: "QPSK", CodingRate: CodingRate{1, 2}, Rates: map[Bandwidth]map[GuardInterval]float64{
		BW20:  {GI08: 17.2, GI16: 16.3, GI32: 14.6},
		BW40:  {GI08: 34.4, GI16: 32.5, GI32: 29.3},
		BW80:  {GI08: 72.1, GI16: 68.1, GI32: 61.3},
		BW160: {GI08: 144.1, GI16: 136.1, GI32: 122.5},
		BW320: {GI08: 288.2, GI16: 272.2, GI32: 245.0},
	}},
	2: {Modulation: "QPSK", CodingRate: CodingRate{3, 4}, Rates: map[Bandwidth]map[GuardInterval]float64{
		BW20:  {GI08: 25.8, GI16: 24.4, GI32: 21.9},
		BW40:  {GI08: 51.6, GI16: 48.8, GI32: 43.9},
		BW80:  {GI08: 108.1, GI16: 102.1, GI32: 91.9},
		BW160: {GI08: 216.2, GI16: 204.2, GI32: 183.8},
		BW320: {GI08: 432.4, GI16: 408.3, GI32: 367.5},
	}},
	3: {Modulation: "16-QAM", CodingRate: CodingRate{1, 2}, Rates: map[Bandwidth]map[GuardInterval]float64{
		BW20:  {GI08: 34.4, GI16: 32.5, GI32: 29.3},
		BW40:  {GI08: 68.8, GI16: 65.0, GI32: 58.5},
		BW80:  {GI08: 144.1, GI16: 136.1, GI32: 122.5},
		BW160: {GI08: 288.2, GI16: 272.2, GI32: 245.0},
		BW320: {GI08: 576.5, GI16: 544.4, GI32: 490.0},
	}},
	4: {Modulation: "16-QAM", CodingRate: CodingRate{3, 4}, Rates: map[Bandwidth]map[GuardInterval]float64{
		BW20:  {GI08: 51.6, GI16: 48.8, GI32: 43.9},
		BW40:  {GI08: 103.2, GI16: 97.5, GI32: 87.8},
		BW80:  {GI08: 216.2, GI16: 204.2, GI32: 183.8},
		BW160: {GI08: 432.4, GI16: 408.3, GI32: 367.5},
		BW320: {GI08: 864.7, GI16: 816.7, GI32: 735.0},
	}},
	5: {Modulation: "64-QAM", CodingRate: CodingRate{2, 3}, Rates: map[Bandwidth]map[GuardInterval]float64{
		BW20:  {GI08: 68.8, GI16: 65.0, GI32: 58.5},
		BW40:  {GI08: 137.6, GI16: 130.0, GI32: 117.0},
		BW80:  {GI08: 288.2, GI16: 272.2, GI32: 245.0},
		BW160: {GI08: 576.5, GI16: 544.4, GI32: 490.0},
		BW320: {GI08: 1152.9, GI16: 1088.9, GI32: 980.0},
	}},
	6: {Modulation: "64-QAM", CodingRate: CodingRate{3, 4}, Rates: map[Bandwidth]map[GuardInterval]float64{
		BW20:  {GI08: 77.4, GI16: 73.1, GI32: 65.8},
		BW40:  {GI08: 154.9, GI16: 146.3, GI32: 131.6},
		BW80:  {GI08: 324.3, GI16: 306.3, GI32: 275.6},
		BW160: {GI08: 648.5, GI16: 612.5, GI32: 551.3},
		BW320: {GI08: 1297.1, GI16: 1225.0, GI32: 1102.5},
	}},
	7: {Modulation: "64-QAM", CodingRate: CodingRate{5, 6}, Rates: map[Bandwidth]map[GuardInterval]float64{
		BW20:  {GI08: 86.0, GI16: 81.3, GI32: 73.1},
		BW40:  {GI08: 172.1, GI16: 162.5, GI32: 146.3},
		BW80:  {GI08: 360.3, GI16: 340.3, GI32: 306.3},
		BW160: {GI08: 720.6, GI16: 680.6, GI32: 612.5},
		BW320: {GI08: 1441.2, GI16: 1361.1, GI32: 1225.0},
	}},
	8: {Modulation: "256-QAM", CodingRate: CodingRate{3, 4}, Rates: map[Bandwidth]map[GuardInterval]float64{
		BW20:  {GI08: 103.2, GI16: 97.5, GI32: 87.8},
		BW40:  {GI08: 206.5, GI16: 195.0, GI32: 175.5},
		BW80:  {GI08: 432.4, GI16: 408.3, GI32: 367.5},
		BW160: {GI08: 864.7, GI16: 816.7, GI32: 735.0},
		BW320: {GI08: 1729.4, GI16: 1633.3, GI32: 1470.0},
	}},
	9: {Modulation: "256-QAM", CodingRate: CodingRate{5, 6}, Rates: map[Bandwidth]map[GuardInterval]float64{
		BW20:  {GI08: 114.7, GI16: 108.3, GI32: 97.5},
		BW40:  {GI08: 229.4, GI16: 216.7, GI32: 195.0},
		BW80:  {GI08: 480.4, GI16: 453.7, GI32: 408.3},
		BW160: {GI08: 960.8, GI16: 907.4, GI32: 816.7},
		BW320: {GI08: 1921.6, GI16: 1814.8, GI32: 1633.3},
	}},
	10: {Modulation: "1024-QAM", CodingRate: CodingRate{3, 4}, Rates: map[Bandwidth]map[GuardInterval]float64{
		BW20:  {GI08: 129.0, GI16: 121.9, GI32: 109.7},
		BW40:  {GI08: 258.1, GI16: 243.8, GI32: 219.4},
		BW80:  {GI08: 540.4, GI16: 510.4, GI32: 459.4},
		BW160: {GI08: 1080.9, GI16: 1020.8, GI32: 918.8},
		BW320: {GI08: 2161.8, GI16: 2041.7, GI32: 1837.5},
	}},
	11: {Modulation: "1024-QAM", CodingRate: CodingRate{5, 6}, Rates: map[Bandwidth]map[GuardInterval]float64{
		BW20:  {GI08: 143.4, GI16: 135.4, GI32: 121.9},
		BW40:  {GI08: 286.8, GI16: 270.8, GI32: 243.8},
		BW80:  {GI08: 600.5, GI16: 567.1, GI32: 510.4},
		BW160: {GI08: 1201.0, GI16: 1134.3, GI32: 1020.8},
		BW320: {GI08: 2402.0, GI16: 2268.5, GI32: 2041.7},
	}},
	12: {Modulation: "4096-QAM", CodingRate: CodingRate{3, 4}, Rates: map[Bandwidth]map[GuardInterval]float64{
		BW20:  {GI08: 154.9, GI16: 146.3, GI32: 131.6},
		BW40:  {GI08: 309.7, GI16: 292.5, GI32: 263.3},
		BW80:  {GI08: 648.5, GI16: 612.5, GI32: 551.3},
		BW160: {GI08: 1297.1, GI16: 1225.0, GI32: 1102.5},
		BW320: {GI08: 2594.1, GI16: 2450.0, GI32: 2205.0},
	}},
	13: {Modulation: "4096-QAM", CodingRate: CodingRate{5, 6}, Rates: map[Bandwidth]map[GuardInterval]float64{
		BW20:  {GI08: 172.1, GI16: 162.5, GI32: 146.3},
		BW40:  {GI08: 344.1, GI16: 325.0, GI32: 292.5},
		BW80:  {GI08: 720.6, GI16: 680.6, GI32: 612.5},
		BW160: {GI08: 1441.2, GI16: 1361.1, GI32: 1225.0},
		BW320: {GI08: 2882.4, GI16: 2722.2, GI32: 2450.0},
	}},
}
