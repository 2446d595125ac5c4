// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package card

import "idcards/internal/models"

// Common text styles.
func caption(size float64, color string) Style {
	return Style{FontSize: size, FontFamily: FontSans, Color: color, Weight: models.WeightBold, Uppercase: true}
}

func textStyle(size float64, family, color string, weight models.FontWeight) Style {
	return Style{FontSize: size, FontFamily: family, Color: color, Weight: weight}
}

// renderClassic draws the green card: header bar, photo on the left,
// labelled data column on the right and a yellow footer stripe.
func renderClassic(d *data) *Card {
	b := newBuilder(d)
	w := float64(models.DefaultCanvasWidth)

	b.watermark(w/2, float64(models.DefaultCanvasHeight)/2, false)

	// Header
	b.rect("header", 0, 0, w, 48, Style{Background: colorGreen700})
	b.logo(16, 4, 40)
	head := caption(10, colorWhite)
	head.Align = models.AlignRight
	head.Truncate = true
	b.text("header-name", d.name, 64, 11, 270, 13, head)
	b.text("header-location", d.location, 64, 24, 270, 13, head)

	// Photo and role badge
	b.photo("photo", 16, 60, 96, 120, Style{BorderColor: colorGreen700, BorderWidth: 2, Radius: 6, Background: colorGray100})
	role := caption(9, colorWhite)
	role.Align = models.AlignCenter
	role.Background = colorGreen800
	role.Radius = 7
	role.Truncate = true
	b.input(models.FieldRole, "", 16, 184, 96, 14, role)

	// Data column
	label := caption(8, colorGray500)
	name := textStyle(14, FontMono, colorGray900, models.WeightBold)
	name.Uppercase = true
	name.Truncate = true
	doc := textStyle(12, FontMono, colorGray800, models.WeightBold)

	b.text("label-name", "Nome", 128, 60, 206, 10, label)
	b.input(models.FieldName, "NOME DO MORADOR", 128, 70, 206, 18, name)
	b.text("label-rg", "RG", 128, 92, 99, 10, label)
	b.input(models.FieldRG, "00.000.000-0", 128, 102, 99, 16, doc)
	b.text("label-birth", "Nascimento", 235, 92, 99, 10, label)
	b.input(models.FieldBirthDate, "DD/MM/AAAA", 235, 102, 99, 16, doc)
	b.text("label-cpf", "CPF", 128, 122, 206, 10, label)
	b.input(models.FieldCPF, "000.000.000-00", 128, 132, 206, 16, doc)

	since := textStyle(9, FontSans, colorGray400, models.WeightNormal)
	since.Italic = true
	b.text("member-since", "Membro desde "+d.resolve(models.FieldRegistrationDate), 128, 164, 206, 12, since)
	mandate := caption(8, colorGreen800)
	mandate.Background = colorGreen100
	mandate.Radius = 2
	mandate.Truncate = true
	b.computed("mandate", models.FieldMandate, 128, 180, 206, 12, mandate)

	// Footer stripe
	b.rect("footer-stripe", 0, 204, w, 16, Style{Background: colorYellow})
	footer := caption(6, colorBlack)
	footer.Align = models.AlignCenter
	footer.Truncate = true
	b.text("footer", d.footer, 8, 204, w-16, 16, footer)

	return b.card(KindClassic, colorWhite, 12)
}

// renderModern draws the dark card with a blue side bar holding the logo
// and the photo.
func renderModern(d *data) *Card {
	b := newBuilder(d)
	w, h := float64(models.DefaultCanvasWidth), float64(models.DefaultCanvasHeight)

	// The watermark sits in the content panel, inverted for the dark surface.
	b.watermark(96+(w-96)/2, h/2, true)
	b.rect("frame", 0, 0, w, h, Style{BorderColor: colorSlate700, BorderWidth: 1, Radius: 12})

	// Side bar
	b.rect("sidebar", 0, 0, 96, h, Style{Background: colorBlue600})
	b.logo(20, 16, 56)
	b.photo("photo", 8, 88, 80, 96, Style{BorderColor: colorWhite, BorderWidth: 2, Radius: 8, Background: colorWhite})
	tag := caption(8, colorBlue200)
	tag.Align = models.AlignCenter
	b.text("tagline", "IDENTIDADE SOCIAL", 0, 196, 96, 10, tag)

	x, cw := 108.0, 230.0
	head := caption(9, colorBlue400)
	head.Truncate = true
	b.text("header-name", d.name, x, 12, cw, 11, head)
	b.text("header-location", "de "+d.location, x, 23, cw, 11, head)

	name := textStyle(13, FontSans, colorWhite, models.WeightBold)
	name.Uppercase = true
	name.Truncate = true
	b.input(models.FieldName, "NOME COMPLETO", x, 36, cw, 16, name)
	b.rect("name-rule", x, 54, cw, 1, Style{Background: colorBlue500})

	col := (cw - 8) / 2
	x2 := x + col + 8
	label := caption(7, colorGray500)
	b.text("label-role", "Função", x, 60, col, 9, label)
	b.input(models.FieldRole, "", x, 69, col, 13, textStyle(10, FontSans, colorBlue300, models.WeightBold))
	b.text("label-birth", "Nascimento", x2, 60, col, 9, label)
	b.input(models.FieldBirthDate, "", x2, 69, col, 13, textStyle(10, FontMono, colorWhite, models.WeightNormal))
	b.text("label-cpf", "CPF", x, 86, col, 9, label)
	b.input(models.FieldCPF, "", x, 95, col, 13, textStyle(10, FontMono, colorGray300, models.WeightNormal))
	b.text("label-rg", "RG", x2, 86, col, 9, label)
	b.input(models.FieldRG, "RG", x2, 95, col, 13, textStyle(10, FontMono, colorGray300, models.WeightNormal))

	// Bottom block
	b.rect("bottom-rule", x, 178, cw, 1, Style{Background: colorSlate700})
	b.computed("registration", models.FieldRegistrationDate, x, 182, 90, 10, textStyle(7, FontSans, colorGray500, models.WeightNormal))
	mandate := caption(7, colorBlue400)
	mandate.Weight = models.WeightNormal
	mandate.Align = models.AlignRight
	mandate.Truncate = true
	b.computed("mandate", models.FieldMandate, x+90, 182, cw-90, 10, mandate)
	footer := caption(5, colorGray600)
	footer.Weight = models.WeightNormal
	footer.Align = models.AlignCenter
	footer.Truncate = true
	b.text("footer", d.footer, x, 198, cw, 8, footer)

	return b.card(KindModern, colorSlate900, 12)
}

// renderMinimal draws the monochrome card in a monospaced face with a
// grayscale photo.
func renderMinimal(d *data) *Card {
	b := newBuilder(d)
	w, h := float64(models.DefaultCanvasWidth), float64(models.DefaultCanvasHeight)

	b.watermark(w/2, h/2, false)
	b.rect("frame", 0, 0, w, h, Style{BorderColor: colorGray200, BorderWidth: 1, Radius: 8})

	// Header
	b.logo(12, 12, 32)
	b.text("brand", "AMC", 52, 10, 170, 18, textStyle(18, FontMono, colorBlack, models.WeightBold))
	sub := textStyle(7, FontMono, colorGray600, models.WeightNormal)
	sub.Uppercase = true
	sub.Truncate = true
	b.text("header-name", d.name, 52, 29, 170, 8, sub)
	b.text("header-location", d.location, 52, 37, 170, 8, sub)
	role := textStyle(10, FontMono, colorWhite, models.WeightBold)
	role.Background = colorBlack
	role.Align = models.AlignCenter
	role.Truncate = true
	b.input(models.FieldRole, "", 229, 12, 109, 20, role)
	b.rect("header-rule", 12, 48, w-24, 2, Style{Background: colorBlack})

	// Photo
	b.rect("photo-frame", 12, 58, 80, 104, Style{Background: colorGray100, BorderColor: colorBlack, BorderWidth: 1})
	b.photo("photo", 14, 60, 76, 100, Style{Grayscale: true})

	// Data column
	x, cw := 104.0, 234.0
	label := textStyle(7, FontMono, colorGray500, models.WeightNormal)
	label.Uppercase = true
	name := textStyle(11, FontMono, colorBlack, models.WeightBold)
	name.Truncate = true
	doc := textStyle(10, FontMono, colorBlack, models.WeightNormal)
	half := (cw - 4) / 2

	b.text("label-name", "Nome", x, 58, cw, 9, label)
	b.input(models.FieldName, "NOME", x, 67, cw, 14, name)
	b.text("label-cpf", "Documento (CPF)", x, 84, cw, 9, label)
	b.input(models.FieldCPF, "", x, 93, cw, 13, doc)
	b.text("label-birth", "Nasc.", x, 110, half, 9, label)
	b.input(models.FieldBirthDate, "", x, 119, half, 13, doc)
	rgLabel := label
	rgLabel.Align = models.AlignRight
	b.text("label-rg", "RG", x+half+4, 110, half, 9, rgLabel)
	rg := doc
	rg.Align = models.AlignRight
	b.input(models.FieldRG, "", x+half+4, 119, half, 13, rg)
	b.rect("mandate-rule", x, 140, cw, 1, Style{Background: colorGray300})
	mandate := textStyle(8, FontMono, colorBlack, models.WeightBold)
	mandate.Align = models.AlignRight
	mandate.Truncate = true
	b.computed("mandate", models.FieldMandate, x, 143, cw, 10, mandate)

	// Footer
	b.rect("footer-rule", 12, 196, w-24, 1, Style{Background: colorGray100})
	footer := textStyle(5, FontMono, colorGray400, models.WeightNormal)
	footer.Uppercase = true
	footer.Align = models.AlignCenter
	footer.Truncate = true
	b.text("footer", d.footer, 12, 200, w-24, 8, footer)

	return b.card(KindMinimal, colorWhite, 8)
}
