package sensors

// Independent transcription of the Bosch datasheet compensation routines
// (BME280_compensate_T_int32 and friends), used to cross-check the decoder
// against a second reading of the same reference code.

type refCoeffs struct {
	t1         uint16
	t2, t3     int16
	p1         uint16
	p2, p3, p4 int16
	p5, p6, p7 int16
	p8, p9     int16
	h1, h3     uint8
	h2, h4, h5 int16
	h6         int8
}

func refParseCalib(tp [26]byte, hc [7]byte) refCoeffs {
	u16 := func(lo, hi byte) uint16 { return uint16(hi)<<8 | uint16(lo) }
	return refCoeffs{
		t1: u16(tp[0], tp[1]),
		t2: int16(u16(tp[2], tp[3])),
		t3: int16(u16(tp[4], tp[5])),
		p1: u16(tp[6], tp[7]),
		p2: int16(u16(tp[8], tp[9])),
		p3: int16(u16(tp[10], tp[11])),
		p4: int16(u16(tp[12], tp[13])),
		p5: int16(u16(tp[14], tp[15])),
		p6: int16(u16(tp[16], tp[17])),
		p7: int16(u16(tp[18], tp[19])),
		p8: int16(u16(tp[20], tp[21])),
		p9: int16(u16(tp[22], tp[23])),
		h1: tp[25],
		h2: int16(u16(hc[0], hc[1])),
		h3: hc[2],
		h4: int16(hc[3])<<4 | int16(hc[4]&0x0F),
		h5: int16(hc[5])<<4 | int16(hc[4]>>4),
		h6: int8(hc[6]),
	}
}

func refTemperature(c refCoeffs, adcT int32) (float64, int32) {
	a := (adcT >> 3) - (int32(c.t1) << 1)
	var1 := (a * int32(c.t2)) >> 11

	b := (adcT >> 4) - int32(c.t1)
	var2 := (((b * b) >> 12) * int32(c.t3)) >> 14

	tFine := var1 + var2
	return float64((tFine*5+128)>>8) / 100.0, tFine
}

func refPressure(c refCoeffs, adcP, tFine int32) float64 {
	var1 := int64(tFine) - 128000
	var2 := var1*var1*int64(c.p6) + ((var1 * int64(c.p5)) << 17) + (int64(c.p4) << 35)
	var1 = ((var1 * var1 * int64(c.p3)) >> 8) + ((var1 * int64(c.p2)) << 12)
	var1 = (((int64(1) << 47) + var1) * int64(c.p1)) >> 33
	if var1 == 0 {
		return 0
	}

	p := ((int64(1048576-adcP)<<31 - var2) * 3125) / var1
	var1 = (int64(c.p9) * (p >> 13) * (p >> 13)) >> 25
	var2 = (int64(c.p8) * p) >> 19
	p = ((p + var1 + var2) >> 8) + (int64(c.p7) << 4)
	return float64(p) / 256.0 / 100.0
}

func refHumidity(c refCoeffs, adcH, tFine int32) float64 {
	vx := tFine - 76800

	a := ((adcH << 14) - (int32(c.h4) << 20) - (int32(c.h5) * vx) + 16384) >> 15
	b := (vx * int32(c.h6)) >> 10
	b = (b * (((vx * int32(c.h3)) >> 11) + 32768)) >> 10
	b = ((b+2097152)*int32(c.h2) + 8192) >> 14

	vx = a * b
	vx -= ((((vx >> 15) * (vx >> 15)) >> 7) * int32(c.h1)) >> 4
	if vx < 0 {
		vx = 0
	}
	if vx > 419430400 {
		vx = 419430400
	}
	return float64(vx>>12) / 1024.0
}
