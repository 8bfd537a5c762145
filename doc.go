// Package captcha generates text and arithmetic CAPTCHA challenges, renders
// them as distorted, noisy images with gg, and validates typed answers.
//
//	e := captcha.New(captcha.DefaultConfig(),
//		captcha.WithSurface(captcha.NewImageSurface(300, 80)),
//		captcha.WithLogger(logger))
//	defer e.Close()
//	res := e.Validate(userInput)
package captcha
